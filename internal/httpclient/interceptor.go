package httpclient

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/constants"
	"golang.org/x/oauth2"
)

// Interceptor decorates outbound requests with the current bearer token.
type Interceptor struct {
	tokens oauth2.TokenSource
}

// NewInterceptor reads tokens from ts on every request.
func NewInterceptor(ts oauth2.TokenSource) *Interceptor {
	return &Interceptor{tokens: ts}
}

// Apply sets Authorization when a token exists and returns the token used.
// Without a token the Authorization header is left untouched.
func (i *Interceptor) Apply(req *http.Request) string {
	if req.Header.Get(constants.HeaderRequestID) == "" {
		req.Header.Set(constants.HeaderRequestID, uuid.NewString())
	}
	if req.Header.Get(constants.HeaderAccept) == "" {
		req.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	}
	tok, err := i.tokens.Token()
	if err != nil || tok == nil || tok.AccessToken == "" {
		return ""
	}
	tok.SetAuthHeader(req)
	return tok.AccessToken
}
