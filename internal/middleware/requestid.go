package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/constants"
)

// RequestID propagates X-Request-ID, generating one when the caller sent none.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(constants.HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("request_id", rid)
		c.Writer.Header().Set(constants.HeaderRequestID, rid)
		c.Next()
	}
}
