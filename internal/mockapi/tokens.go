package mockapi

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	errTokenInvalid   = errors.New("token invalid")
	errRefreshUnknown = errors.New("refresh token unknown or expired")
)

const refreshTokenTTL = 7 * 24 * time.Hour

type accessClaims struct {
	jwt.RegisteredClaims
	// Gen ties the token to the issuer generation so tests can expire every
	// outstanding token at once.
	Gen int64 `json:"gen"`
}

type refreshEntry struct {
	subject string
	expires time.Time
}

type issuedTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// tokenIssuer signs HS256 access tokens and keeps rotating refresh tokens.
type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu         sync.Mutex
	generation int64
	refresh    map[string]refreshEntry
}

func newTokenIssuer(secret string, ttl time.Duration) *tokenIssuer {
	return &tokenIssuer{
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
		refresh: make(map[string]refreshEntry),
	}
}

func (t *tokenIssuer) issue(subject string) (issuedTokens, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.issueLocked(subject)
}

func (t *tokenIssuer) issueLocked(subject string) (issuedTokens, error) {
	now := t.now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			Issuer:    "yushan-mockapi",
		},
		Gen: t.generation,
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return issuedTokens{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh := uuid.NewString()
	t.refresh[refresh] = refreshEntry{subject: subject, expires: now.Add(refreshTokenTTL)}
	return issuedTokens{AccessToken: access, RefreshToken: refresh, ExpiresIn: t.ttl}, nil
}

// validate returns the subject of a live access token.
func (t *tokenIssuer) validate(access string) (string, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(access, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errTokenInvalid, err)
	}
	t.mu.Lock()
	gen := t.generation
	t.mu.Unlock()
	if claims.Gen != gen {
		return "", fmt.Errorf("%w: revoked", errTokenInvalid)
	}
	return claims.Subject, nil
}

// rotate exchanges a refresh token for a new pair. The old token is spent.
func (t *tokenIssuer) rotate(refresh string) (string, issuedTokens, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.refresh[refresh]
	if !ok {
		return "", issuedTokens{}, errRefreshUnknown
	}
	delete(t.refresh, refresh)
	if t.now().After(entry.expires) {
		return "", issuedTokens{}, errRefreshUnknown
	}
	tokens, err := t.issueLocked(entry.subject)
	return entry.subject, tokens, err
}

func (t *tokenIssuer) revoke(refresh string) {
	t.mu.Lock()
	delete(t.refresh, refresh)
	t.mu.Unlock()
}

// expireAccess invalidates every access token issued so far.
func (t *tokenIssuer) expireAccess() {
	t.mu.Lock()
	t.generation++
	t.mu.Unlock()
}

// revokeAll invalidates every access and refresh token.
func (t *tokenIssuer) revokeAll() {
	t.mu.Lock()
	t.generation++
	t.refresh = make(map[string]refreshEntry)
	t.mu.Unlock()
}
