package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter decides whether a request identified by key is allowed
// within the current window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
}

// RedisRateLimiter implements a fixed-window rate limiter backed by Redis,
// shared across server instances.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedisRateLimiter creates a Redis-backed rate limiter
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "ratelimit:",
	}
}

// Allow increments the counter for key and checks it against the limit
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	redisKey := rl.prefix + key

	count, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			return false, 0, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	remaining := rl.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return int(count) <= rl.limit, remaining, nil
}

// Limit returns the configured request limit per window
func (rl *RedisRateLimiter) Limit() int {
	return rl.limit
}

// InMemoryRateLimiter implements a fixed-window rate limiter in process
// memory. Suitable for tests and single-instance deployments.
type InMemoryRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*windowCounter
	limit   int
	window  time.Duration
}

type windowCounter struct {
	count      int
	windowedAt time.Time
}

// NewInMemoryRateLimiter creates an in-memory rate limiter
func NewInMemoryRateLimiter(limit int, window time.Duration) *InMemoryRateLimiter {
	rl := &InMemoryRateLimiter{
		clients: make(map[string]*windowCounter),
		limit:   limit,
		window:  window,
	}
	go rl.cleanup()
	return rl
}

func (rl *InMemoryRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, c := range rl.clients {
			if now.Sub(c.windowedAt) > rl.window*2 {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow checks if a request from the given key should be allowed
func (rl *InMemoryRateLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, exists := rl.clients[key]
	if !exists || now.Sub(c.windowedAt) >= rl.window {
		rl.clients[key] = &windowCounter{count: 1, windowedAt: now}
		return true, rl.limit - 1, nil
	}

	c.count++
	remaining := rl.limit - c.count
	if remaining < 0 {
		remaining = 0
	}
	return c.count <= rl.limit, remaining, nil
}

// Limit returns the configured request limit per window
func (rl *InMemoryRateLimiter) Limit() int {
	return rl.limit
}

// RateLimit returns a rate limiting middleware keyed by client IP
func RateLimit(limiter RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// RateLimitByKey returns a rate limiting middleware with a custom key extractor
func RateLimitByKey(limiter RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		allowed, remaining, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// Fail open when the limiter backend is unavailable
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.Limit()))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "RATE_LIMITED",
					"message": "Too many requests. Please try again later.",
				},
			})
			return
		}

		c.Next()
	}
}
