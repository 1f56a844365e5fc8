package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Eltn555/admin/domain"
)

// RedisCookieStore implements domain.CookieStore using Redis. The key TTL
// follows the cookie expiry.
type RedisCookieStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisCookieStore creates a new Redis-backed cookie store
func NewRedisCookieStore(client *redis.Client, prefix string) *RedisCookieStore {
	return &RedisCookieStore{
		client: client,
		prefix: prefix + "cookie:",
		now:    time.Now,
	}
}

// Get implements domain.CookieStore
func (s *RedisCookieStore) Get(ctx context.Context, name string) (*domain.Cookie, error) {
	key := s.prefix + name
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cookie %s: %w", name, err)
	}

	var cookie domain.Cookie
	if err := json.Unmarshal([]byte(data), &cookie); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cookie: %w", err)
	}

	if cookie.Expired(s.now()) {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return nil, fmt.Errorf("failed to remove expired cookie %s: %w", name, err)
		}
		return nil, nil
	}

	return &cookie, nil
}

// Set implements domain.CookieStore
func (s *RedisCookieStore) Set(ctx context.Context, cookie *domain.Cookie) error {
	var ttl time.Duration
	if !cookie.Expires.IsZero() {
		ttl = cookie.Expires.Sub(s.now())
		if ttl <= 0 {
			return s.Remove(ctx, cookie.Name)
		}
	}

	data, err := json.Marshal(cookie)
	if err != nil {
		return fmt.Errorf("failed to marshal cookie: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+cookie.Name, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cookie %s: %w", cookie.Name, err)
	}
	return nil
}

// Remove implements domain.CookieStore
func (s *RedisCookieStore) Remove(ctx context.Context, name string) error {
	return s.client.Del(ctx, s.prefix+name).Err()
}

var _ domain.CookieStore = (*RedisCookieStore)(nil)
