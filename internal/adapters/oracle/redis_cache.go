package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces oracle answers in a shared Redis.
const DefaultRedisPrefix = "numwords:oracle:"

// RedisCache stores oracle answers as JSON arrays in Redis.
type RedisCache struct {
	client redis.Cmdable
	prefix string
}

// NewRedisCache creates a cache on top of client.
func NewRedisCache(client redis.Cmdable, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisCache{client: client, prefix: prefix}
}

// Get implements ports.OracleCache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var matches []string
	if err := json.Unmarshal([]byte(val), &matches); err != nil {
		return nil, false, fmt.Errorf("decode cached matches: %w", err)
	}
	return matches, true, nil
}

// Set implements ports.OracleCache.
func (c *RedisCache) Set(ctx context.Context, key string, matches []string, ttl time.Duration) error {
	if matches == nil {
		matches = []string{}
	}
	data, err := json.Marshal(matches)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.prefix+key, string(data), ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
