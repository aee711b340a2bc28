package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func limitedRouter(rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimiter(rps, burst))
	router.GET("/test", func(c *gin.Context) { c.String(200, "OK") })
	return router
}

func get(router http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/test", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	t.Run("Allow requests within limit", func(t *testing.T) {
		router := limitedRouter(10, 10)
		for i := 0; i < 10; i++ {
			require.Equal(t, 200, get(router, "").Code)
		}
	})

	t.Run("Block requests exceeding limit", func(t *testing.T) {
		router := limitedRouter(1, 1)
		require.Equal(t, 200, get(router, "").Code)

		w := get(router, "")
		require.Equal(t, http.StatusTooManyRequests, w.Code)
		require.Equal(t, "1", w.Header().Get("Retry-After"))
		require.JSONEq(t, `{"code":429,"message":"Rate limit exceeded","data":null}`, w.Body.String())
	})

	t.Run("Tokens are limited separately", func(t *testing.T) {
		router := limitedRouter(1, 1)
		require.Equal(t, 200, get(router, "alice").Code)
		require.Equal(t, 200, get(router, "bob").Code)
		require.Equal(t, http.StatusTooManyRequests, get(router, "alice").Code)
	})

	t.Run("Disabled when rps is zero", func(t *testing.T) {
		router := limitedRouter(0, 0)
		for i := 0; i < 50; i++ {
			require.Equal(t, 200, get(router, "").Code)
		}
	})
}

func TestTTLLimiterCacheSweeps(t *testing.T) {
	cache := newTTLLimiterCache(time.Millisecond)
	mk := func() *rate.Limiter { return rate.NewLimiter(1, 1) }

	first := cache.get("a", mk)
	require.Same(t, first, cache.get("a", mk))

	cache.mu.Lock()
	cache.items["a"].lastSeen = time.Now().Add(-time.Hour)
	cache.lastSweep = time.Now().Add(-time.Hour)
	cache.mu.Unlock()

	cache.get("b", mk)
	require.Equal(t, 1, cache.len())
}
