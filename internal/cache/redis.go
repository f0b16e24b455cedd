package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "fairshare:balances:"

// RedisCache stores JSON-encoded values in Redis so every server instance
// sees the same cached balances.
type RedisCache[T any] struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Cache[int] = (*RedisCache[int])(nil)

// NewRedisCache wraps an existing client. The caller owns the client.
func NewRedisCache[T any](client *redis.Client, ttl time.Duration) *RedisCache[T] {
	return &RedisCache[T]{client: client, ttl: ttl}
}

// Dial parses a redis:// URL, connects and pings the server.
func Dial(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Get retrieves and decodes the value for key.
func (c *RedisCache[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T

	val, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("redis get: %w", err)
	}

	var data T
	if err := json.Unmarshal(val, &data); err != nil {
		return zero, false, fmt.Errorf("decode cached value: %w", err)
	}
	return data, true, nil
}

// Set encodes and stores the value for key with the cache TTL.
func (c *RedisCache[T]) Set(ctx context.Context, key string, data T) error {
	val, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode cached value: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes the value for key.
func (c *RedisCache[T]) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}
