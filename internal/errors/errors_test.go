package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapHTTPErrorPrefersServerMessage(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   Kind
		msg    string
	}{
		{"envelope message", http.StatusBadRequest, `{"code":400,"message":"Title is required"}`, KindBadRequest, "Title is required"},
		{"nested error", http.StatusForbidden, `{"error":{"message":"Not the author"}}`, KindForbidden, "Not the author"},
		{"error string", http.StatusConflict, `{"error":"Email already registered"}`, KindConflict, "Email already registered"},
		{"default text", http.StatusNotFound, ``, KindNotFound, "Resource not found"},
		{"plain text body", http.StatusInternalServerError, `upstream exploded`, KindServer, "upstream exploded"},
		{"json without message", http.StatusUnprocessableEntity, `{"code":422}`, KindValidation, "Validation failed"},
		{"too many", http.StatusTooManyRequests, ``, KindRateLimited, "Too many requests, please slow down"},
		{"gateway timeout", http.StatusGatewayTimeout, ``, KindTimeout, "Request timed out"},
		{"unauthorized", http.StatusUnauthorized, ``, KindAuthExpired, "Your session has expired"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := MapHTTPError(tc.status, []byte(tc.body))
			require.Equal(t, tc.kind, e.Kind)
			require.Equal(t, tc.status, e.HTTPStatus)
			require.Equal(t, tc.msg, e.Message)
		})
	}
}

func TestMapHTTPErrorFieldDetails(t *testing.T) {
	e := MapHTTPError(http.StatusUnprocessableEntity, []byte(`{"message":"bad input","errors":{"title":"too long"}}`))
	require.Equal(t, "too long", e.Details["title"])
}

type fakeRateLimit struct{}

func (fakeRateLimit) Error() string     { return "budget exhausted" }
func (fakeRateLimit) RateLimited() bool { return true }

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestMapTransportError(t *testing.T) {
	require.Equal(t, KindTimeout, MapTransportError(context.DeadlineExceeded).Kind)
	require.Equal(t, KindTimeout, MapTransportError(fmt.Errorf("dial: %w", timeoutErr{})).Kind)
	require.Equal(t, KindCanceled, MapTransportError(context.Canceled).Kind)
	require.Equal(t, KindRateLimited, MapTransportError(fmt.Errorf("wrapped: %w", fakeRateLimit{})).Kind)
	require.Equal(t, KindRefreshFailed, MapTransportError(fmt.Errorf("%w: boom", ErrRefreshFailed)).Kind)

	netErr := MapTransportError(stderrors.New("dial tcp: connection refused"))
	require.Equal(t, KindNetwork, netErr.Kind)
	require.Equal(t, NetworkMessage, netErr.Message)
	require.Equal(t, "connection_refused", netErr.Code)

	orig := New(KindNotFound, 404, "not_found", "gone")
	require.Same(t, orig, MapTransportError(fmt.Errorf("ctx: %w", orig)))
}

func TestIsKindAndUnwrap(t *testing.T) {
	err := fmt.Errorf("call: %w", Wrap(KindRefreshFailed, ErrNoRefreshToken, "expired"))
	require.True(t, IsKind(err, KindRefreshFailed))
	require.False(t, IsKind(err, KindNetwork))
	require.False(t, IsKind(nil, KindNetwork))
	require.True(t, stderrors.Is(err, ErrNoRefreshToken))

	apiErr, ok := As(err)
	require.True(t, ok)
	require.True(t, apiErr.IsSessionEnded())
	require.False(t, apiErr.IsRetryable())
}

func TestRetryAfter(t *testing.T) {
	e := New(KindRateLimited, 429, "rate_limited", "slow").WithDetails(map[string]interface{}{"retry_after": 3})
	d, ok := e.RetryAfter()
	require.True(t, ok)
	require.Equal(t, "3s", d.String())
	require.True(t, e.IsRetryable())
}
