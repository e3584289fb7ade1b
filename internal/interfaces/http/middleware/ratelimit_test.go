package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func allowed(t *testing.T, limiter RateLimiter, key string) bool {
	t.Helper()
	ok, _, err := limiter.Allow(context.Background(), key)
	assert.NoError(t, err)
	return ok
}

func TestInMemoryRateLimiter(t *testing.T) {
	t.Run("allows requests within limit", func(t *testing.T) {
		limiter := NewInMemoryRateLimiter(5, time.Minute)

		for i := 0; i < 5; i++ {
			assert.True(t, allowed(t, limiter, "client1"), "request %d should be allowed", i+1)
		}
	})

	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		limiter := NewInMemoryRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, allowed(t, limiter, "client2"))
		}

		assert.False(t, allowed(t, limiter, "client2"))
	})

	t.Run("separate limits per client", func(t *testing.T) {
		limiter := NewInMemoryRateLimiter(2, time.Minute)

		assert.True(t, allowed(t, limiter, "clientA"))
		assert.True(t, allowed(t, limiter, "clientA"))
		assert.False(t, allowed(t, limiter, "clientA"))

		assert.True(t, allowed(t, limiter, "clientB"))
		assert.True(t, allowed(t, limiter, "clientB"))
	})

	t.Run("resets after window", func(t *testing.T) {
		limiter := NewInMemoryRateLimiter(2, 50*time.Millisecond)

		assert.True(t, allowed(t, limiter, "client3"))
		assert.True(t, allowed(t, limiter, "client3"))
		assert.False(t, allowed(t, limiter, "client3"))

		time.Sleep(60 * time.Millisecond)

		assert.True(t, allowed(t, limiter, "client3"))
	})

	t.Run("reports remaining requests", func(t *testing.T) {
		limiter := NewInMemoryRateLimiter(3, time.Minute)

		_, remaining, err := limiter.Allow(context.Background(), "client4")
		assert.NoError(t, err)
		assert.Equal(t, 2, remaining)

		_, remaining, err = limiter.Allow(context.Background(), "client4")
		assert.NoError(t, err)
		assert.Equal(t, 1, remaining)
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		limiter := NewInMemoryRateLimiter(100, time.Minute)

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, _ = limiter.Allow(context.Background(), "shared")
			}()
		}
		wg.Wait()

		// 50 used, 50 remaining
		_, remaining, err := limiter.Allow(context.Background(), "shared")
		assert.NoError(t, err)
		assert.Equal(t, 49, remaining)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(limiter RateLimiter) *gin.Engine {
		router := gin.New()
		router.Use(RateLimit(limiter))
		router.GET("/test", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("allows requests under limit", func(t *testing.T) {
		router := newRouter(NewInMemoryRateLimiter(5, time.Minute))

		for i := 0; i < 5; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("returns 429 when limit exceeded", func(t *testing.T) {
		router := newRouter(NewInMemoryRateLimiter(2, time.Minute))

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "RATE_LIMITED")
	})

	t.Run("sets rate limit headers", func(t *testing.T) {
		router := newRouter(NewInMemoryRateLimiter(10, time.Minute))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("custom key extractor", func(t *testing.T) {
		limiter := NewInMemoryRateLimiter(1, time.Minute)
		router := gin.New()
		router.Use(RateLimitByKey(limiter, func(c *gin.Context) string {
			return c.GetHeader("X-API-Key")
		}))
		router.GET("/test", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		// First key exhausts its limit
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-API-Key", "key-1")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-API-Key", "key-1")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		// Different key is unaffected
		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-API-Key", "key-2")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
