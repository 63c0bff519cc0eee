package dto

import (
	"tably/infras/jwt"
	userModel "tably/internal/domains/user/model"
	"tably/shared/constant"
	gModel "tably/shared/model"
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone"    validate:"omitempty,max=20"`
}

func (r *RegisterRequest) ToUserModel(hashedPassword string, now time.Time) userModel.User {
	id := uuid.NewString()

	return userModel.User{
		ID:       id,
		Name:     r.Name,
		Email:    r.Email,
		Password: hashedPassword,
		Phone:    r.Phone,
		Role:     constant.RoleUser,
		Verified: false,
		Active:   true,
		Metadata: gModel.NewMetadata(now, id),
	}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.ExpiresIn = tokenPair.ExpiresIn
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code"  validate:"required,len=6"`
}

type ResendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}
