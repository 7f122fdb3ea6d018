// Package cache provides Redis caching utilities for the application.
// The only cached values are site settings; every write invalidates, so
// readers never observe a stale setting for longer than one request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// SettingTTL bounds how long a setting may live in the cache.
const SettingTTL = 5 * time.Minute

// Init initializes the Redis client with the given address. A bad or
// unreachable address disables caching rather than failing startup.
func Init(addr string) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			slog.Warn("invalid REDIS_URL, continuing without cache", "addr", addr, "err", err)
			client = nil
			return
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	c := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unreachable, continuing without cache", "err", err)
		client = nil
		return
	}
	client = c
	slog.Info("redis connected")
}

// SetClient swaps in a client directly (tests use miniredis).
func SetClient(c *redis.Client) {
	client = c
}

// Client returns the configured Redis client, nil when caching is disabled.
func Client() *redis.Client {
	return client
}

// SettingKey returns the cache key for a setting.
func SettingKey(key string) string {
	return "setting:" + key
}

// Aside tries Redis first; on miss it calls fill (which must write into
// dest), then stores the result best-effort. With no client configured it is
// just fill().
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fill func() error) error {
	if client != nil {
		s, err := client.Get(ctx, key).Result()
		if err == nil {
			if unmarshalErr := json.Unmarshal([]byte(s), dest); unmarshalErr == nil {
				return nil
			}
		} else if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "cache read failed", "key", key, "err", err)
		}
	}

	if err := fill(); err != nil {
		return err
	}

	if client != nil {
		if b, err := json.Marshal(dest); err == nil {
			_ = client.Set(ctx, key, b, ttl).Err()
		}
	}
	return nil
}

// Invalidate drops a key.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}
