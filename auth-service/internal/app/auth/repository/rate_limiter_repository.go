package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "ratelimit:"

type redisRateLimiterRepository struct {
	client *redis.Client
}

// NewRedisRateLimiterRepository создает счётчик попыток поверх Redis
func NewRedisRateLimiterRepository(client *redis.Client) RateLimiterRepository {
	return &redisRateLimiterRepository{client: client}
}

// Allow реализует fixed-window лимит: ключ включает номер текущего окна,
// счётчик инкрементируется и получает TTL при первом обращении.
// С началом нового окна счёт открывается заново.
func (r *redisRateLimiterRepository) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	windowIndex := time.Now().UnixMilli() / window.Milliseconds()
	redisKey := fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, key, windowIndex)

	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if count == 1 {
		r.client.Expire(ctx, redisKey, window)
	}

	return count <= int64(limit), nil
}
