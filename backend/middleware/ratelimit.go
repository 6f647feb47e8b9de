package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ascendance/cardadmin/backend/utils"
	"github.com/gofiber/fiber/v2"
	lru "github.com/hashicorp/golang-lru"
)

// RateLimiter is a fixed window limiter keyed by client. The number of
// tracked clients is bounded; the least recently seen ones are forgotten.
type RateLimiter struct {
	windows *lru.Cache
	mutex   sync.Mutex
	window  time.Duration
	limit   int
	now     func() time.Time
}

type clientWindow struct {
	start time.Time
	count int
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration, maxKeys int) *RateLimiter {
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	windows, _ := lru.New(maxKeys)
	return &RateLimiter{
		windows: windows,
		window:  window,
		limit:   limit,
		now:     time.Now,
	}
}

// Allow checks if a request should be allowed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	if v, ok := rl.windows.Get(key); ok {
		w := v.(*clientWindow)
		if now.Sub(w.start) < rl.window {
			if w.count >= rl.limit {
				return false
			}
			w.count++
			return true
		}
	}

	rl.windows.Add(key, &clientWindow{start: now, count: 1})
	return true
}

// RateLimit middleware limits requests per client IP. Forwarded headers only
// count when the app trusts the proxy that set them.
func RateLimit(limit int, window time.Duration, maxKeys int) fiber.Handler {
	limiter := NewRateLimiter(limit, window, maxKeys)

	return func(c *fiber.Ctx) error {
		ip := c.IP()

		if !limiter.Allow(ip) {
			slog.Warn("Rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", c.Path()),
				slog.String("method", c.Method()),
				slog.Int("limit", limit),
				slog.Duration("window", window))

			return utils.SendError(c, fiber.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
				"Too many requests. Please try again later.", nil)
		}

		return c.Next()
	}
}
