// Package cache provides a small JSON cache-aside layer over redis.
// Every helper is a no-op when redis is unavailable, so callers never
// need to know whether caching is active.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect creates a redis client for addr and verifies the connection.
// Returns nil (caching disabled) if redis cannot be reached.
func Connect(addr string, log *slog.Logger) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, continuing without cache", slog.String("error", err.Error()))
		_ = client.Close()
		return nil
	}

	log.Info("Redis connected successfully")
	return client
}

// GetJSON attempts to get the key from redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	s, err := rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, rdb *redis.Client, key string, v any, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}

// Invalidate removes the given keys, best-effort.
func Invalidate(ctx context.Context, rdb *redis.Client, keys ...string) {
	if rdb == nil || len(keys) == 0 {
		return
	}
	_ = rdb.Del(ctx, keys...).Err()
}

// Aside tries redis first; on miss it calls fetch (which must write into
// dest) and stores the result with ttl, best-effort.
func Aside(ctx context.Context, rdb *redis.Client, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, rdb, key, dest)
	if err == nil && found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = SetJSON(ctx, rdb, key, dest, ttl)
	return nil
}
