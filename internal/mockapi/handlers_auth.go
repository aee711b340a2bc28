package mockapi

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/api"
	"github.com/tidwall/gjson"

	log "github.com/sirupsen/logrus"
)

const minPasswordLength = 8

func authPayload(u api.User, t issuedTokens) api.AuthResponse {
	return api.AuthResponse{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    t.ExpiresIn.Milliseconds(),
		User:         u,
	}
}

func (s *Server) handleLogin(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid login request")
		return
	}
	u, found := s.data.authenticate(req.Email, req.Password)
	if !found {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	tokens, err := s.tokens.issue(u.UUID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, authPayload(u, tokens))
}

func (s *Server) handleRegister(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid registration request")
		return
	}
	fields := map[string]string{}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		fields["email"] = "must be a valid email address"
	}
	if strings.TrimSpace(req.Username) == "" {
		fields["username"] = "must not be empty"
	}
	if len(req.Password) < minPasswordLength {
		fields["password"] = "must be at least 8 characters"
	}
	if len(fields) > 0 {
		invalid(c, fields)
		return
	}
	u, err := s.data.createUser(req.Email, strings.TrimSpace(req.Username), req.Password, req.Gender)
	if errors.Is(err, errConflict) {
		fail(c, http.StatusConflict, "Email is already registered")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	tokens, err := s.tokens.issue(u.UUID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	created(c, authPayload(u, tokens))
}

// handleRefresh implements the refresh contract:
// {"refreshToken"} -> {"data": {"accessToken", "refreshToken", "expiresIn"}}.
func (s *Server) handleRefresh(c *gin.Context) {
	s.refreshCalls.Add(1)
	if d := time.Duration(s.refreshDelay.Load()); d > 0 {
		select {
		case <-time.After(d):
		case <-c.Request.Context().Done():
			return
		}
	}
	body, err := c.GetRawData()
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid refresh request")
		return
	}
	refresh := strings.TrimSpace(gjson.GetBytes(body, "refreshToken").String())
	if refresh == "" {
		fail(c, http.StatusBadRequest, "refreshToken is required")
		return
	}
	subject, tokens, err := s.tokens.rotate(refresh)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Refresh token expired or invalid")
		return
	}
	if _, found := s.data.user(subject); !found {
		fail(c, http.StatusUnauthorized, "Account no longer exists")
		return
	}
	log.WithField("user", subject).Debug("mock backend rotated tokens")
	ok(c, gin.H{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"expiresIn":    tokens.ExpiresIn.Milliseconds(),
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	body, _ := c.GetRawData()
	if refresh := gjson.GetBytes(body, "refreshToken").String(); refresh != "" {
		s.tokens.revoke(refresh)
	}
	ok(c, nil)
}
