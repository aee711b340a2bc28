package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func validator(token string) (string, error) {
	if token == "good" {
		return "user-1", nil
	}
	return "", errors.New("expired")
}

func TestBearerAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/private", BearerAuth(validator), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserKey))
	})
	router.GET("/public", OptionalBearerAuth(validator), func(c *gin.Context) {
		c.String(http.StatusOK, "anon:"+c.GetString(ContextUserKey))
	})

	cases := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{"private without token", "/private", "", http.StatusUnauthorized, ""},
		{"private with expired token", "/private", "Bearer stale", http.StatusUnauthorized, ""},
		{"private with good token", "/private", "Bearer good", http.StatusOK, "user-1"},
		{"public anonymous", "/public", "", http.StatusOK, "anon:"},
		{"public with expired token", "/public", "Bearer stale", http.StatusUnauthorized, ""},
		{"public with good token", "/public", "bearer good", http.StatusOK, "anon:user-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			require.Equal(t, tc.status, w.Code)
			if tc.body != "" {
				require.Equal(t, tc.body, w.Body.String())
			}
		})
	}
}
