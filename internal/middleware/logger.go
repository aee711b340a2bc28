package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/logging"
	log "github.com/sirupsen/logrus"
)

// RequestLogger logs HTTP requests
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		userVal, _ := c.Get(ContextUserKey)
		extras := log.Fields{
			"status":     status,
			"kind":       logging.StatusKind(status),
			"latency_ms": logging.DurationMS(latency),
			"user_agent": c.Request.UserAgent(),
			"user":       userVal,
		}
		entry := logging.WithReq(c, extras)
		if status >= 500 {
			entry.Warn("http_request")
			return
		}
		entry.Info("http_request")
	}
}
