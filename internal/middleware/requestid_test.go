package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Generate request ID when not provided", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		var seen any
		router.GET("/test", func(c *gin.Context) {
			seen, _ = c.Get("request_id")
			c.String(200, "OK")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		responseID := w.Header().Get("X-Request-ID")
		_, err := uuid.Parse(responseID)
		require.NoError(t, err)
		require.Equal(t, responseID, seen)
	})

	t.Run("Use provided request ID", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) { c.String(200, "OK") })

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", "custom-request-id")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, "custom-request-id", w.Header().Get("X-Request-ID"))
	})

	t.Run("Generate unique IDs for different requests", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) { c.String(200, "OK") })

		w1 := httptest.NewRecorder()
		router.ServeHTTP(w1, httptest.NewRequest("GET", "/test", nil))
		w2 := httptest.NewRecorder()
		router.ServeHTTP(w2, httptest.NewRequest("GET", "/test", nil))

		require.NotEqual(t, w1.Header().Get("X-Request-ID"), w2.Header().Get("X-Request-ID"))
	})
}
