package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/monitoring"
)

// Metrics counts requests per route and status class.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		monitoring.MockHTTPRequestsTotal.WithLabelValues(c.Request.Method, path, monitoring.StatusClass(c.Writer.Status())).Inc()
	}
}
