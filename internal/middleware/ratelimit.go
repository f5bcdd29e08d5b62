package middleware

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Limiter enforces fixed-window rate limits backed by redis INCR/EXPIRE.
// A nil redis client fails open so the site keeps working without redis;
// the test environment bypasses limits entirely.
type Limiter struct {
	rdb *redis.Client
}

// NewLimiter creates a Limiter. rdb may be nil.
func NewLimiter(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

// Allow reports whether another request for resource/id fits within limit
// per window.
func (l *Limiter) Allow(ctx context.Context, resource, id string, limit int, window time.Duration) bool {
	if os.Getenv("APP_ENV") == "test" {
		return true
	}
	if l == nil || l.rdb == nil {
		return true
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)
	cnt, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		// Fail-open on redis errors.
		return true
	}
	if cnt == 1 {
		l.rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit)
}

// Handler returns a Fiber middleware enforcing limit requests per window
// for the named resource, keyed by client IP.
func (l *Limiter) Handler(resource string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := "ip:" + c.IP()
		if !l.Allow(c.Context(), resource, id, limit, window) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
