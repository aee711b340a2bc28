package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/constants"
)

// PendingRequest is a replayable copy of an outbound request.
type PendingRequest struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte

	// SentToken is the access token the request went out with.
	SentToken string
	// Retried is set before the single replay.
	Retried bool

	ctx context.Context
}

// capture buffers req so it can be sent twice. req.Body is consumed and closed.
func capture(req *http.Request) (*PendingRequest, error) {
	pr := &PendingRequest{
		Method: req.Method,
		URL:    req.URL,
		Header: req.Header.Clone(),
		ctx:    req.Context(),
	}
	if pr.Header == nil {
		pr.Header = make(http.Header)
	}
	if req.Body != nil && req.Body != http.NoBody {
		body, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("buffer request body: %w", err)
		}
		pr.Body = body
	}
	return pr, nil
}

// build creates a fresh request. A non-empty token replaces Authorization.
func (p *PendingRequest) build(token string) (*http.Request, error) {
	var body io.Reader
	if p.Body != nil {
		body = bytes.NewReader(p.Body)
	}
	req, err := http.NewRequestWithContext(p.ctx, p.Method, p.URL.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header = p.Header.Clone()
	if p.Body != nil {
		data := p.Body
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		}
	}
	if token != "" {
		req.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}
	return req, nil
}
