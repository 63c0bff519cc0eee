package service

import (
	"context"
	"fmt"
	"tably/config"
	"tably/infras/jwt"
	"tably/infras/otel"
	"tably/internal/domains/auth/model/dto"
	userModel "tably/internal/domains/user/model"
	userRepo "tably/internal/domains/user/repository"
	verificationSvc "tably/internal/domains/verification/service"
	"tably/shared/clock"
	"tably/shared/constant"
	gDto "tably/shared/dto"
	"tably/shared/failure"
	"tably/shared/password"

	"github.com/rs/zerolog/log"
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) error
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.LoginResponse, error)
	VerifyEmail(ctx context.Context, req dto.VerifyEmailRequest) error
	ResendCode(ctx context.Context, req dto.ResendCodeRequest) error
}

type serviceImpl struct {
	userRepo     userRepo.User
	verification verificationSvc.Verification
	jwtService   jwt.JWT
	clock        clock.Clock
	cfg          *config.Config
	otel         otel.Otel
}

func New(
	userRepo userRepo.User,
	verification verificationSvc.Verification,
	jwtService jwt.JWT,
	clk clock.Clock,
	cfg *config.Config,
	otel otel.Otel,
) Auth {
	return &serviceImpl{
		userRepo:     userRepo,
		verification: verification,
		jwtService:   jwtService,
		clock:        clk,
		cfg:          cfg,
		otel:         otel,
	}
}

// Register creates the account unverified and issues a verification code.
// A failed dispatch does not undo the registration; the user can request
// a resend.
func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer scope.TraceIfError(err)

	exists, err := s.userRepo.Exist(ctx, emailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return failure.BadRequestFromString("email already registered") //nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToUserModel(hashedPassword, s.clock.Now())

	if err = s.userRepo.Insert(ctx, user); err != nil {
		log.Error().Err(err).Msg("failed to create user")

		return fmt.Errorf("failed to create user: %w", err)
	}

	if err = s.verification.Issue(ctx, user.ID); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to issue verification code after registration")
	}

	return nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.userRepo.Get(ctx, emailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.Exists() {
		log.Warn().Str("email", req.Email).Msg("login attempt with unknown email")

		return res, failure.BadRequestFromString("invalid email or password") //nolint:wrapcheck
	}

	if err = password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.BadRequestFromString("invalid email or password") //nolint:wrapcheck
	}

	if !user.Active {
		return res, failure.Forbidden("account is deactivated") //nolint:wrapcheck
	}

	if !user.Verified {
		return res, failure.Forbidden("account is not verified") //nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.LoginResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	tokenPair, err := s.jwtService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token") //nolint:wrapcheck
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) VerifyEmail(ctx context.Context, req dto.VerifyEmailRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".VerifyEmail")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.userRepo.Get(ctx, emailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if !user.Exists() {
		return failure.NotFound("user") //nolint:wrapcheck
	}

	return s.verification.Validate(ctx, user.ID, req.Code) //nolint:wrapcheck
}

func (s *serviceImpl) ResendCode(ctx context.Context, req dto.ResendCodeRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResendCode")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.verification.Resend(ctx, req.Email) //nolint:wrapcheck
}

func emailFilter(email string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldEmail,
				Value:    email,
				Operator: gDto.FilterOperatorEq,
			},
		},
	}
}
