package repository

import (
	"context"
	"errors"
	"time"

	"dentalcare/auth-service/internal/app/auth/entity"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]entity.User, error)
}

// TokenRepository - эфемерное хранилище токенов в Redis.
// Все записи TTL-ограничены, фоновая очистка не требуется.
type TokenRepository interface {
	// Одноразовые токены подтверждения email и сброса пароля
	SaveVerificationToken(ctx context.Context, token, email string, ttl time.Duration) error
	GetVerificationEmail(ctx context.Context, token string) (string, error)
	DeleteVerificationToken(ctx context.Context, token string) error
	SavePasswordResetToken(ctx context.Context, token, email string, ttl time.Duration) error
	GetPasswordResetEmail(ctx context.Context, token string) (string, error)
	DeletePasswordResetToken(ctx context.Context, token string) error

	// Refresh токены: отображение токен -> username плюс множество
	// токенов пользователя для массовой инвалидации
	SaveRefreshToken(ctx context.Context, username, token string, ttl time.Duration) error
	GetRefreshTokenUser(ctx context.Context, token string) (string, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteUserRefreshTokens(ctx context.Context, username string) (int, error)

	// Учёт выданных access токенов по отпечатку и чёрный список
	TrackAccessToken(ctx context.Context, username, hash string, setTTL, tokenTTL time.Duration) error
	GetUserAccessTokenHashes(ctx context.Context, username string) ([]string, error)
	GetAccessTokenMetaTTL(ctx context.Context, hash string) (time.Duration, error)
	DeleteAccessTokenMeta(ctx context.Context, hash string) error
	DeleteUserAccessTokenSet(ctx context.Context, username string) error
	BlacklistAccessToken(ctx context.Context, hash string, ttl time.Duration) error
	IsAccessTokenBlacklisted(ctx context.Context, hash string) (bool, error)
}

// RateLimiterRepository - счётчик попыток с фиксированным окном
type RateLimiterRepository interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
