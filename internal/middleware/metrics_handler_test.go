package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/monitoring"
)

func TestMetricsMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics(), RequestLogger())
	router.GET("/api/novels/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/metrics", MetricsHandler)

	counter := monitoring.MockHTTPRequestsTotal.WithLabelValues("GET", "/api/novels/:id", "4xx")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/novels/42", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, before+1, testutil.ToFloat64(counter))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	require.Contains(t, body, "yushan_mockapi_requests_total")
	require.Contains(t, body, "# HELP")
	require.Contains(t, body, "# TYPE")
}
