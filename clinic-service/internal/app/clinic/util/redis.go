package util

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"dentalcare/clinic-service/internal/app/clinic/entity"

	"github.com/redis/go-redis/v9"
)

const (
	servicesCacheKey = "services:all"
	dentistsCacheKey = "dentists:all"

	// Ключи пишет auth-service при отзыве access токенов
	blacklistKeyPrefix = "blacklist:access:" // blacklist:access:<sha256 hex>
)

type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

func (r *RedisClient) SetServices(ctx context.Context, services []entity.DentalService, ttl time.Duration) error {
	data, err := json.Marshal(services)
	if err != nil {
		return fmt.Errorf("failed to marshal services: %w", err)
	}

	if err := r.client.Set(ctx, servicesCacheKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set services in cache: %w", err)
	}

	return nil
}

func (r *RedisClient) GetServices(ctx context.Context) ([]entity.DentalService, error) {
	data, err := r.client.Get(ctx, servicesCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get services from cache: %w", err)
	}

	var services []entity.DentalService
	if err := json.Unmarshal(data, &services); err != nil {
		return nil, fmt.Errorf("failed to unmarshal services: %w", err)
	}

	return services, nil
}

func (r *RedisClient) DeleteServices(ctx context.Context) error {
	if err := r.client.Del(ctx, servicesCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to delete services from cache: %w", err)
	}
	return nil
}

func (r *RedisClient) SetDentists(ctx context.Context, dentists []entity.Dentist, ttl time.Duration) error {
	data, err := json.Marshal(dentists)
	if err != nil {
		return fmt.Errorf("failed to marshal dentists: %w", err)
	}

	if err := r.client.Set(ctx, dentistsCacheKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set dentists in cache: %w", err)
	}

	return nil
}

func (r *RedisClient) GetDentists(ctx context.Context) ([]entity.Dentist, error) {
	data, err := r.client.Get(ctx, dentistsCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dentists from cache: %w", err)
	}

	var dentists []entity.Dentist
	if err := json.Unmarshal(data, &dentists); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dentists: %w", err)
	}

	return dentists, nil
}

func (r *RedisClient) DeleteDentists(ctx context.Context) error {
	if err := r.client.Del(ctx, dentistsCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to delete dentists from cache: %w", err)
	}
	return nil
}

// IsAccessTokenBlacklisted проверяет, отозван ли access токен.
// Токен хранится в blacklist по SHA-256 хэшу, а не в открытом виде.
func (r *RedisClient) IsAccessTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	sum := sha256.Sum256([]byte(token))
	hash := hex.EncodeToString(sum[:])

	exists, err := r.client.Exists(ctx, blacklistKeyPrefix+hash).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check access token blacklist: %w", err)
	}

	return exists > 0, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
