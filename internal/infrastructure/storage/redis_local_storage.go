package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Eltn555/admin/domain"
)

// RedisLocalStorage implements domain.LocalStorage using Redis strings.
// Entries have no TTL, matching browser local storage.
type RedisLocalStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisLocalStorage creates a new Redis-backed local storage
func NewRedisLocalStorage(client *redis.Client, prefix string) *RedisLocalStorage {
	return &RedisLocalStorage{
		client: client,
		prefix: prefix + "local:",
	}
}

// GetItem implements domain.LocalStorage
func (s *RedisLocalStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s from Redis: %w", key, err)
	}
	return val, true, nil
}

// SetItem implements domain.LocalStorage
func (s *RedisLocalStorage) SetItem(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to store %s in Redis: %w", key, err)
	}
	return nil
}

// RemoveItem implements domain.LocalStorage
func (s *RedisLocalStorage) RemoveItem(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to remove keys from Redis: %w", err)
	}
	return nil
}

var _ domain.LocalStorage = (*RedisLocalStorage)(nil)
