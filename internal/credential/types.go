package credential

import (
	"time"

	"golang.org/x/oauth2"
)

// Credential is the session's bearer credential. Empty strings and a zero
// ExpiresAt mean "absent".
type Credential struct {
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// IsZero reports whether nothing is stored.
func (c Credential) IsZero() bool {
	return c.AccessToken == "" && c.RefreshToken == "" && c.ExpiresAt.IsZero()
}

// Token converts the credential to an oauth2 bearer token.
func (c Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: c.RefreshToken,
		Expiry:       c.ExpiresAt,
	}
}

// FromToken converts an oauth2 token back into a Credential.
func FromToken(tok *oauth2.Token) Credential {
	if tok == nil {
		return Credential{}
	}
	return Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	}
}

// Mask shortens a token for logs.
func Mask(token string) string {
	if len(token) <= 8 {
		if token == "" {
			return ""
		}
		return "****"
	}
	return token[:4] + "…" + token[len(token)-4:]
}
