package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"tably/config"
	mailerMocks "tably/infras/mailer/mocks"
	otelMocks "tably/infras/otel/mocks"
	userMocks "tably/internal/domains/user/mocks"
	userModel "tably/internal/domains/user/model"
	verificationMocks "tably/internal/domains/verification/mocks"
	"tably/internal/domains/verification/model"
	"tably/shared/clock"
	"tably/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc    Verification
	repo   *verificationMocks.MockVerificationCode
	users  *userMocks.MockUser
	mailer *mailerMocks.MockMailer
	clock  *clock.Fake
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Verification.CodeTTLMinutes = 10
	cfg.Verification.MailSubject = "Your verification code"

	repo := verificationMocks.NewMockVerificationCode(ctrl)
	users := userMocks.NewMockUser(ctrl)
	mail := mailerMocks.NewMockMailer(ctrl)
	clk := clock.NewFake(time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC))

	return &fixture{
		svc:    New(repo, users, mail, clk, cfg, otelMocks.NewOtel()),
		repo:   repo,
		users:  users,
		mailer: mail,
		clock:  clk,
	}
}

func unverifiedUser() userModel.User {
	return userModel.User{
		ID:       "user-1",
		Name:     "Dina",
		Email:    "dina@example.com",
		Role:     "user",
		Verified: false,
		Active:   true,
	}
}

func storedCode(fx *fixture, value string) model.VerificationCode {
	return model.VerificationCode{
		ID:         "code-1",
		IdentityID: "user-1",
		Code:       value,
		ExpiresAt:  fx.clock.Now().Add(10 * time.Minute),
	}
}

func TestIssue(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a six digit code with the configured expiry", func(t *testing.T) {
		fx := newFixture(t)

		fx.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(unverifiedUser(), nil)

		var stored model.VerificationCode

		fx.repo.EXPECT().Replace(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, code model.VerificationCode) error {
				stored = code

				return nil
			})
		fx.mailer.EXPECT().Send(gomock.Any(), "dina@example.com", "Your verification code", gomock.Any()).Return(nil)

		require.NoError(t, fx.svc.Issue(ctx, "user-1"))
		assert.Len(t, stored.Code, 6)
		assert.Equal(t, fx.clock.Now().Add(10*time.Minute), stored.ExpiresAt)
		assert.False(t, stored.Consumed)
	})

	t.Run("a mail failure does not fail the issue", func(t *testing.T) {
		fx := newFixture(t)

		fx.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(unverifiedUser(), nil)
		fx.repo.EXPECT().Replace(gomock.Any(), gomock.Any()).Return(nil)
		fx.mailer.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		require.NoError(t, fx.svc.Issue(ctx, "user-1"))
	})

	t.Run("unknown user", func(t *testing.T) {
		fx := newFixture(t)

		fx.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

		err := fx.svc.Issue(ctx, "user-404")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("consumes the code and marks the user verified", func(t *testing.T) {
		fx := newFixture(t)

		fx.repo.EXPECT().GetByIdentity(gomock.Any(), "user-1").Return(storedCode(fx, "482913"), nil)
		fx.repo.EXPECT().Consume(gomock.Any(), "code-1").Return(nil)
		fx.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, update map[string]any, _ interface{}) error {
				assert.Equal(t, true, update[userModel.FieldVerified])

				return nil
			})

		require.NoError(t, fx.svc.Validate(ctx, "user-1", " 482913 "))
	})

	t.Run("rejects a mismatched code", func(t *testing.T) {
		fx := newFixture(t)

		fx.repo.EXPECT().GetByIdentity(gomock.Any(), "user-1").Return(storedCode(fx, "482913"), nil)

		err := fx.svc.Validate(ctx, "user-1", "000000")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("rejects an expired code", func(t *testing.T) {
		fx := newFixture(t)

		code := storedCode(fx, "482913")
		fx.clock.Advance(11 * time.Minute)
		fx.repo.EXPECT().GetByIdentity(gomock.Any(), "user-1").Return(code, nil)

		err := fx.svc.Validate(ctx, "user-1", "482913")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("rejects an already consumed code", func(t *testing.T) {
		fx := newFixture(t)

		code := storedCode(fx, "482913")
		code.Consumed = true
		fx.repo.EXPECT().GetByIdentity(gomock.Any(), "user-1").Return(code, nil)

		err := fx.svc.Validate(ctx, "user-1", "482913")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("rejects when no code exists", func(t *testing.T) {
		fx := newFixture(t)

		fx.repo.EXPECT().GetByIdentity(gomock.Any(), "user-1").Return(model.VerificationCode{}, nil)

		err := fx.svc.Validate(ctx, "user-1", "482913")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestResend(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the previous code for an unverified account", func(t *testing.T) {
		fx := newFixture(t)

		fx.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(unverifiedUser(), nil)
		fx.repo.EXPECT().Replace(gomock.Any(), gomock.Any()).Return(nil)
		fx.mailer.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, fx.svc.Resend(ctx, "dina@example.com"))
	})

	t.Run("rejects an already verified account", func(t *testing.T) {
		fx := newFixture(t)

		verified := unverifiedUser()
		verified.Verified = true
		fx.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(verified, nil)

		err := fx.svc.Resend(ctx, "dina@example.com")
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("unknown email", func(t *testing.T) {
		fx := newFixture(t)

		fx.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

		err := fx.svc.Resend(ctx, "ghost@example.com")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestExpiredHelper(t *testing.T) {
	now := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

	code := model.VerificationCode{ID: "c", ExpiresAt: now.Add(time.Minute)}
	assert.False(t, code.Expired(now))

	// Redeemable at exactly the expiry instant, expired only after it.
	assert.False(t, code.Expired(now.Add(time.Minute)))
	assert.True(t, code.Expired(now.Add(time.Minute+time.Second)))

	assert.True(t, code.Usable(now))
	assert.True(t, code.Usable(now.Add(time.Minute)))
	assert.False(t, code.Usable(now.Add(2*time.Minute)))
}
