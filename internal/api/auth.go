package api

import (
	"context"
	"net/http"
	"time"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/credential"
	apierrors "github.com/maugus0/yushan-platform-frontend-sub001/internal/errors"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/httpclient"

	log "github.com/sirupsen/logrus"
)

// LoginRequest is the login form.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the registration form.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Gender   int    `json:"gender,omitempty"`
	Code     string `json:"code,omitempty"`
}

// AuthResponse is returned by login and register. ExpiresIn is in
// milliseconds.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType,omitempty"`
	ExpiresIn    int64  `json:"expiresIn"`
	User
}

var authMessages = messages{
	http.StatusUnauthorized: "Invalid email or password",
	http.StatusConflict:     "An account with this email already exists",
}

// AuthService logs users in and out.
type AuthService struct {
	client *httpclient.Client
	store  *credential.Store
}

// Login signs in and stores the returned credential.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*User, error) {
	return s.authenticate(ctx, "/auth/login", req)
}

// Register creates an account and signs in with it.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	return s.authenticate(ctx, "/auth/register", req)
}

func (s *AuthService) authenticate(ctx context.Context, path string, body any) (*User, error) {
	// a 401 here means bad credentials, not an expired session
	resp, err := call[AuthResponse](httpclient.SkipAuthRefresh(ctx), s.client, http.MethodPost, path, nil, body, authMessages)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, apierrors.New(apierrors.KindDecode, 0, "decode_error", "Login response did not include a token")
	}
	s.store.Set(resp.AccessToken, resp.RefreshToken, time.Duration(resp.ExpiresIn)*time.Millisecond)
	user := resp.User
	return &user, nil
}

// Logout ends the session on the server and always clears the local
// credential. An already expired session is not an error.
func (s *AuthService) Logout(ctx context.Context) error {
	defer s.store.Clear()
	if !s.store.IsAuthenticated() {
		return nil
	}
	body := map[string]string{"refreshToken": s.store.RefreshToken()}
	err := send(httpclient.SkipAuthRefresh(ctx), s.client, http.MethodPost, "/auth/logout", body, nil)
	if err != nil && apierrors.IsKind(err, apierrors.KindAuthExpired) {
		return nil
	}
	if err != nil {
		log.WithError(err).Warn("server logout failed, local session cleared anyway")
	}
	return err
}

// Authenticated reports whether a credential is held.
func (s *AuthService) Authenticated() bool { return s.store.IsAuthenticated() }
