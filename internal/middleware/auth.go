package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextUserKey holds the authenticated subject set by BearerAuth.
const ContextUserKey = "user_id"

// TokenValidator resolves an access token to its subject.
type TokenValidator func(token string) (subject string, err error)

// BearerAuth rejects requests without a valid bearer token with 401.
func BearerAuth(validate TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondUnauthorized(c, "Authentication required")
			return
		}
		subject, err := validate(token)
		if err != nil {
			respondUnauthorized(c, "Token expired or invalid")
			return
		}
		c.Set(ContextUserKey, subject)
		c.Next()
	}
}

// OptionalBearerAuth lets anonymous requests through but still rejects a
// token that is present and no longer valid.
func OptionalBearerAuth(validate TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			subject, err := validate(token)
			if err != nil {
				respondUnauthorized(c, "Token expired or invalid")
				return
			}
			c.Set(ContextUserKey, subject)
		}
		c.Next()
	}
}

func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": message,
		"data":    nil,
	})
}
