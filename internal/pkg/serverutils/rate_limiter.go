package serverutils

import (
	"context"
	"fmt"
	"time"

	"risk-copilot-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window per-IP limiter backed by Redis, shared
// across instances. When Redis is unreachable requests pass through; the
// limiter protects the LLM budget, it is not a security boundary.
type RateLimiter struct {
	rdb     *redis.Client
	limit   int
	window  time.Duration
	enabled bool
}

func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration, enabled bool) *RateLimiter {
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{rdb: rdb, limit: limit, window: window, enabled: enabled}
}

func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !rl.enabled || rl.rdb == nil {
			return ctx.Next()
		}

		key := fmt.Sprintf("ratelimit:%s:%d", ctx.IP(), time.Now().Unix()/int64(rl.window.Seconds()))

		count, err := rl.rdb.Incr(context.Background(), key).Result()
		if err != nil {
			return ctx.Next()
		}
		if count == 1 {
			rl.rdb.Expire(context.Background(), key, rl.window)
		}

		if count > int64(rl.limit) {
			return &dto.RateLimitError{RetryAfterSeconds: int(rl.window.Seconds())}
		}

		return ctx.Next()
	}
}
