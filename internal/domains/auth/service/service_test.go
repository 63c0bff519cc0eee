package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"tably/config"
	"tably/infras/jwt"
	jwtMocks "tably/infras/jwt/mocks"
	otelMocks "tably/infras/otel/mocks"
	"tably/internal/domains/auth/model/dto"
	userMocks "tably/internal/domains/user/mocks"
	userModel "tably/internal/domains/user/model"
	verificationMocks "tably/internal/domains/verification/mocks"
	"tably/shared/clock"
	"tably/shared/failure"
	"tably/shared/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc          Auth
	users        *userMocks.MockUser
	verification *verificationMocks.MockVerification
	jwtService   *jwtMocks.MockJWT
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	users := userMocks.NewMockUser(ctrl)
	verification := verificationMocks.NewMockVerification(ctrl)
	jwtService := jwtMocks.NewMockJWT(ctrl)
	clk := clock.NewFake(time.Date(2025, time.July, 1, 10, 0, 0, 0, time.UTC))

	return &fixture{
		svc:          New(users, verification, jwtService, clk, &config.Config{}, otelMocks.NewOtel()),
		users:        users,
		verification: verification,
		jwtService:   jwtService,
	}
}

func verifiedUser(t *testing.T, plaintext string) userModel.User {
	t.Helper()

	hashed, err := password.Hash(plaintext)
	require.NoError(t, err)

	return userModel.User{
		ID:       "user-1",
		Name:     "Dina",
		Email:    "dina@example.com",
		Password: hashed,
		Role:     "user",
		Verified: true,
		Active:   true,
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	registration := dto.RegisterRequest{
		Name:     "Dina",
		Email:    "dina@example.com",
		Password: "strong-password",
	}

	t.Run("creates an unverified account and issues a code", func(t *testing.T) {
		fx := newFixture(t)

		fx.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		var created userModel.User

		fx.users.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user userModel.User) error {
				created = user

				return nil
			})
		fx.verification.EXPECT().Issue(gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, fx.svc.Register(ctx, registration))
		assert.False(t, created.Verified)
		assert.True(t, created.Active)
		assert.NotEqual(t, "strong-password", created.Password)
		require.NoError(t, password.Verify("strong-password", created.Password))
	})

	t.Run("a failed code dispatch does not undo registration", func(t *testing.T) {
		fx := newFixture(t)

		fx.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		fx.users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		fx.verification.EXPECT().Issue(gomock.Any(), gomock.Any()).Return(errors.New("mailer down"))

		require.NoError(t, fx.svc.Register(ctx, registration))
	})

	t.Run("duplicate email", func(t *testing.T) {
		fx := newFixture(t)

		fx.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := fx.svc.Register(ctx, registration)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	login := dto.LoginRequest{Email: "dina@example.com", Password: "strong-password"}

	t.Run("returns a token pair for a verified account", func(t *testing.T) {
		fx := newFixture(t)

		fx.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(verifiedUser(t, "strong-password"), nil)
		fx.jwtService.EXPECT().GenerateTokenPair("user-1", "dina@example.com", "user").
			Return(&jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}, nil)

		res, err := fx.svc.Login(ctx, login)
		require.NoError(t, err)
		assert.Equal(t, "access", res.AccessToken)
		assert.Equal(t, "refresh", res.RefreshToken)
	})

	t.Run("rejects an unverified account", func(t *testing.T) {
		fx := newFixture(t)

		user := verifiedUser(t, "strong-password")
		user.Verified = false
		fx.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

		_, err := fx.svc.Login(ctx, login)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("rejects a deactivated account", func(t *testing.T) {
		fx := newFixture(t)

		user := verifiedUser(t, "strong-password")
		user.Active = false
		fx.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

		_, err := fx.svc.Login(ctx, login)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("wrong password and unknown email share one message", func(t *testing.T) {
		fx := newFixture(t)

		fx.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(verifiedUser(t, "strong-password"), nil)

		_, wrongPassword := fx.svc.Login(ctx, dto.LoginRequest{Email: "dina@example.com", Password: "nope"})
		require.Error(t, wrongPassword)

		fx.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

		_, unknownEmail := fx.svc.Login(ctx, dto.LoginRequest{Email: "ghost@example.com", Password: "nope"})
		require.Error(t, unknownEmail)

		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	})
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a fresh pair", func(t *testing.T) {
		fx := newFixture(t)

		fx.jwtService.EXPECT().RefreshTokens("refresh").
			Return(&jwt.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil)

		res, err := fx.svc.RefreshToken(ctx, dto.RefreshTokenRequest{RefreshToken: "refresh"})
		require.NoError(t, err)
		assert.Equal(t, "access-2", res.AccessToken)
	})

	t.Run("invalid refresh token", func(t *testing.T) {
		fx := newFixture(t)

		fx.jwtService.EXPECT().RefreshTokens("bad").Return(nil, jwt.ErrInvalidToken)

		_, err := fx.svc.RefreshToken(ctx, dto.RefreshTokenRequest{RefreshToken: "bad"})
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestVerifyEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates validation for the resolved user", func(t *testing.T) {
		fx := newFixture(t)

		fx.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(verifiedUser(t, "x"), nil)
		fx.verification.EXPECT().Validate(gomock.Any(), "user-1", "482913").Return(nil)

		require.NoError(t, fx.svc.VerifyEmail(ctx, dto.VerifyEmailRequest{Email: "dina@example.com", Code: "482913"}))
	})

	t.Run("unknown email", func(t *testing.T) {
		fx := newFixture(t)

		fx.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

		err := fx.svc.VerifyEmail(ctx, dto.VerifyEmailRequest{Email: "ghost@example.com", Code: "482913"})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
