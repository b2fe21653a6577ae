package service

import (
	"context"

	"dentalcare/auth-service/internal/app/auth/entity"
	"dentalcare/auth-service/internal/app/auth/util"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) error
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	InvalidateUserRefreshTokens(ctx context.Context, username string) error
	InvalidateUserAccessTokens(ctx context.Context, username string) error
	ValidateAccessToken(ctx context.Context, token string) (*util.JWTClaims, error)
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
}

type UserServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	Update(ctx context.Context, id uuid.UUID, req *entity.UpdateUserRequest) (*entity.User, error)
	ChangeRole(ctx context.Context, id uuid.UUID, role string) (*entity.User, error)
	PromoteToPatient(ctx context.Context, username string) (*entity.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CaptchaVerifier проверяет анти-бот токен из формы регистрации
type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) bool
}

// Mailer отправляет письма. Отправка - best-effort: ошибка логируется,
// но никогда не проваливает основную операцию.
type Mailer interface {
	Send(ctx context.Context, msg *entity.EmailMessage) error
}

// MessageProducer публикует сообщения в брокер (реализация - Kafka)
type MessageProducer interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
}
