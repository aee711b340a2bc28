package credential

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtExpiry reads the exp claim of a JWT access token without verifying it.
// Opaque tokens return false.
func jwtExpiry(token string) (time.Time, bool) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
