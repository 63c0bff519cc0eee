package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"
	"tably/config"
	"tably/infras/mailer"
	"tably/infras/otel"
	userModel "tably/internal/domains/user/model"
	userRepo "tably/internal/domains/user/repository"
	"tably/internal/domains/verification/code"
	"tably/internal/domains/verification/model"
	"tably/internal/domains/verification/repository"
	"tably/shared"
	"tably/shared/clock"
	"tably/shared/constant"
	gDto "tably/shared/dto"
	"tably/shared/failure"
	gModel "tably/shared/model"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Verification interface {
	Issue(ctx context.Context, userID string) error
	Validate(ctx context.Context, userID, submitted string) error
	Resend(ctx context.Context, email string) error
}

type serviceImpl struct {
	repo     repository.VerificationCode
	userRepo userRepo.User
	mailer   mailer.Mailer
	clock    clock.Clock
	cfg      *config.Config
	otel     otel.Otel
}

func New(
	repo repository.VerificationCode,
	userRepo userRepo.User,
	mail mailer.Mailer,
	clk clock.Clock,
	cfg *config.Config,
	otel otel.Otel,
) Verification {
	return &serviceImpl{
		repo:     repo,
		userRepo: userRepo,
		mailer:   mail,
		clock:    clk,
		cfg:      cfg,
		otel:     otel,
	}
}

// Issue generates a fresh code for the user, replacing any previous one,
// and dispatches it by mail. A mail failure is logged but never rolls the
// code back; the user can ask for a resend.
func (s *serviceImpl) Issue(ctx context.Context, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Issue")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	return s.issue(ctx, user)
}

func (s *serviceImpl) issue(ctx context.Context, user userModel.User) error {
	generated, err := code.Generate()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate verification code")

		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	now := s.clock.Now()

	verification := model.VerificationCode{
		ID:         uuid.NewString(),
		IdentityID: user.ID,
		Code:       generated,
		ExpiresAt:  now.Add(time.Duration(s.cfg.Verification.CodeTTLMinutes) * time.Minute),
		Metadata:   gModel.NewMetadata(now, user.ID),
	}

	if err = s.repo.Replace(ctx, verification); err != nil {
		log.Error().Err(err).Msg("failed to store verification code")

		return fmt.Errorf("failed to store verification code: %w", err)
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", generated, s.cfg.Verification.CodeTTLMinutes)

	if err = s.mailer.Send(ctx, user.Email, s.cfg.Verification.MailSubject, body); err != nil {
		log.Error().Err(err).Str("recipient", user.Email).Msg("failed to send verification mail")
	}

	return nil
}

// Validate redeems the submitted code. It fails closed: a missing,
// expired, consumed or mismatched code all produce the same rejection.
// On success the code is consumed and the user marked verified.
func (s *serviceImpl) Validate(ctx context.Context, userID, submitted string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Validate")
	defer scope.End()
	defer scope.TraceIfError(err)

	submitted = strings.TrimSpace(submitted)

	verification, err := s.repo.GetByIdentity(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get verification code")

		return fmt.Errorf("failed to get verification code: %w", err)
	}

	if !verification.Usable(s.clock.Now()) || verification.Code != submitted {
		return failure.BadRequestFromString("invalid or expired verification code") //nolint:wrapcheck
	}

	if err = s.repo.Consume(ctx, verification.ID); err != nil {
		log.Error().Err(err).Msg("failed to consume verification code")

		return fmt.Errorf("failed to consume verification code: %w", err)
	}

	updated := map[string]any{
		userModel.FieldVerified:  true,
		constant.FieldModifiedAt: s.clock.Now(),
		constant.FieldModifiedBy: userID,
	}

	if err = s.userRepo.Update(ctx, updated, shared.FilterByID(userID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to mark user verified")

		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	return nil
}

// Resend issues a fresh code for an unverified account.
func (s *serviceImpl) Resend(ctx context.Context, email string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resend")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldEmail,
				Value:    email,
				Operator: gDto.FilterOperatorEq,
			},
		},
	}

	user, err := s.userRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if !user.Exists() {
		return failure.NotFound("user") //nolint:wrapcheck
	}

	if user.Verified {
		return failure.Conflict("account is already verified") //nolint:wrapcheck
	}

	return s.issue(ctx, user)
}

func (s *serviceImpl) loadUser(ctx context.Context, userID string) (userModel.User, error) {
	user, err := s.userRepo.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.Exists() {
		return user, failure.NotFound("user") //nolint:wrapcheck
	}

	return user, nil
}
