package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Схема ключей в Redis. Все записи снабжены TTL и исчезают сами,
// поэтому явной очистки устаревших токенов нет.
const (
	verifyKeyPrefix      = "verify:"           // verify:<token> -> email
	resetKeyPrefix       = "pwreset:"          // pwreset:<token> -> email
	refreshKeyPrefix     = "refresh:"          // refresh:<token> -> username
	refreshSetKeyPrefix  = "refresh_tokens:"   // refresh_tokens:<username> -> SET токенов
	accessSetKeyPrefix   = "access_tokens:"    // access_tokens:<username> -> SET отпечатков
	accessMetaKeyPrefix  = "access_meta:"      // access_meta:<hash>, TTL = остаток жизни токена
	blacklistKeyPrefix   = "blacklist:access:" // blacklist:access:<hash>
)

type redisTokenRepository struct {
	client *redis.Client
}

// NewRedisTokenRepository создает новый Redis репозиторий для токенов
func NewRedisTokenRepository(client *redis.Client) TokenRepository {
	return &redisTokenRepository{client: client}
}

// SaveVerificationToken сохраняет токен подтверждения email с TTL
func (r *redisTokenRepository) SaveVerificationToken(ctx context.Context, token, email string, ttl time.Duration) error {
	if err := r.client.Set(ctx, verifyKeyPrefix+token, email, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save verification token: %w", err)
	}
	return nil
}

// GetVerificationEmail возвращает email по токену подтверждения
func (r *redisTokenRepository) GetVerificationEmail(ctx context.Context, token string) (string, error) {
	email, err := r.client.Get(ctx, verifyKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get verification token: %w", err)
	}
	return email, nil
}

// DeleteVerificationToken удаляет одноразовый токен подтверждения
func (r *redisTokenRepository) DeleteVerificationToken(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, verifyKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete verification token: %w", err)
	}
	return nil
}

// SavePasswordResetToken сохраняет токен сброса пароля с TTL
func (r *redisTokenRepository) SavePasswordResetToken(ctx context.Context, token, email string, ttl time.Duration) error {
	if err := r.client.Set(ctx, resetKeyPrefix+token, email, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save password reset token: %w", err)
	}
	return nil
}

// GetPasswordResetEmail возвращает email по токену сброса пароля
func (r *redisTokenRepository) GetPasswordResetEmail(ctx context.Context, token string) (string, error) {
	email, err := r.client.Get(ctx, resetKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get password reset token: %w", err)
	}
	return email, nil
}

// DeletePasswordResetToken удаляет одноразовый токен сброса пароля
func (r *redisTokenRepository) DeletePasswordResetToken(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, resetKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete password reset token: %w", err)
	}
	return nil
}

// SaveRefreshToken сохраняет отображение refresh токен -> username и
// добавляет токен в множество токенов пользователя. TTL множества
// продлевается при каждой выдаче.
func (r *redisTokenRepository) SaveRefreshToken(ctx context.Context, username, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, refreshKeyPrefix+token, username, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}

	setKey := refreshSetKeyPrefix + username
	if err := r.client.SAdd(ctx, setKey, token).Err(); err != nil {
		return fmt.Errorf("failed to add token to user refresh set: %w", err)
	}
	r.client.Expire(ctx, setKey, ttl)

	return nil
}

// GetRefreshTokenUser возвращает username по refresh токену
func (r *redisTokenRepository) GetRefreshTokenUser(ctx context.Context, token string) (string, error) {
	username, err := r.client.Get(ctx, refreshKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get refresh token: %w", err)
	}
	return username, nil
}

// DeleteRefreshToken удаляет отображение токена и убирает его
// из множества токенов пользователя. Идемпотентна.
func (r *redisTokenRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	key := refreshKeyPrefix + token

	username, err := r.client.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to resolve refresh token owner: %w", err)
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	if username != "" {
		r.client.SRem(ctx, refreshSetKeyPrefix+username, token)
	}

	return nil
}

// DeleteUserRefreshTokens удаляет все refresh токены пользователя.
// Возвращает количество удалённых токенов.
func (r *redisTokenRepository) DeleteUserRefreshTokens(ctx context.Context, username string) (int, error) {
	setKey := refreshSetKeyPrefix + username

	tokens, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get user refresh tokens: %w", err)
	}

	for _, token := range tokens {
		r.client.Del(ctx, refreshKeyPrefix+token)
	}

	if err := r.client.Del(ctx, setKey).Err(); err != nil {
		return 0, fmt.Errorf("failed to delete user refresh token set: %w", err)
	}

	return len(tokens), nil
}

// TrackAccessToken регистрирует отпечаток выданного access токена:
// добавляет его в множество пользователя (TTL = refresh TTL) и пишет
// метазапись, живущую ровно столько, сколько живет сам токен.
func (r *redisTokenRepository) TrackAccessToken(ctx context.Context, username, hash string, setTTL, tokenTTL time.Duration) error {
	setKey := accessSetKeyPrefix + username
	if err := r.client.SAdd(ctx, setKey, hash).Err(); err != nil {
		return fmt.Errorf("failed to add access token hash to user set: %w", err)
	}
	r.client.Expire(ctx, setKey, setTTL)

	if tokenTTL > 0 {
		if err := r.client.Set(ctx, accessMetaKeyPrefix+hash, "1", tokenTTL).Err(); err != nil {
			return fmt.Errorf("failed to save access token meta: %w", err)
		}
	}

	return nil
}

// GetUserAccessTokenHashes возвращает отпечатки всех учтённых access токенов
func (r *redisTokenRepository) GetUserAccessTokenHashes(ctx context.Context, username string) ([]string, error) {
	hashes, err := r.client.SMembers(ctx, accessSetKeyPrefix+username).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get user access token hashes: %w", err)
	}
	return hashes, nil
}

// GetAccessTokenMetaTTL возвращает остаток жизни access токена по метазаписи.
// Если метазапись отсутствует или истекла, возвращает 0.
func (r *redisTokenRepository) GetAccessTokenMetaTTL(ctx context.Context, hash string) (time.Duration, error) {
	ttl, err := r.client.TTL(ctx, accessMetaKeyPrefix+hash).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get access token meta TTL: %w", err)
	}
	if ttl < 0 {
		// -2: ключ не существует, -1: без TTL - в обоих случаях остаток неизвестен
		return 0, nil
	}
	return ttl, nil
}

// DeleteAccessTokenMeta удаляет метазапись access токена
func (r *redisTokenRepository) DeleteAccessTokenMeta(ctx context.Context, hash string) error {
	if err := r.client.Del(ctx, accessMetaKeyPrefix+hash).Err(); err != nil {
		return fmt.Errorf("failed to delete access token meta: %w", err)
	}
	return nil
}

// DeleteUserAccessTokenSet удаляет множество отпечатков пользователя
func (r *redisTokenRepository) DeleteUserAccessTokenSet(ctx context.Context, username string) error {
	if err := r.client.Del(ctx, accessSetKeyPrefix+username).Err(); err != nil {
		return fmt.Errorf("failed to delete user access token set: %w", err)
	}
	return nil
}

// BlacklistAccessToken помещает отпечаток в чёрный список на заданный срок.
// Запись самоуничтожается вместе с естественным истечением токена.
func (r *redisTokenRepository) BlacklistAccessToken(ctx context.Context, hash string, ttl time.Duration) error {
	if ttl <= 0 {
		// Токен уже истёк, чёрный список не нужен
		return nil
	}
	if err := r.client.Set(ctx, blacklistKeyPrefix+hash, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist access token: %w", err)
	}
	return nil
}

// IsAccessTokenBlacklisted проверяет отпечаток по чёрному списку
func (r *redisTokenRepository) IsAccessTokenBlacklisted(ctx context.Context, hash string) (bool, error) {
	exists, err := r.client.Exists(ctx, blacklistKeyPrefix+hash).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check access token blacklist: %w", err)
	}
	return exists > 0, nil
}
