package errors

import (
	"context"
	stderrors "errors"
	"net"
	"strings"
)

// NetworkMessage is shown when no response was received at all.
const NetworkMessage = "Network error, please check your connection"

// rateLimited is implemented by client-side budget errors.
type rateLimited interface {
	RateLimited() bool
}

// MapTransportError maps an error returned before any response was read.
func MapTransportError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}
	var rl rateLimited
	if stderrors.As(err, &rl) && rl.RateLimited() {
		return Wrap(KindRateLimited, err, "Too many requests, please slow down")
	}
	if stderrors.Is(err, ErrRefreshFailed) || stderrors.Is(err, ErrNoRefreshToken) {
		return Wrap(KindRefreshFailed, err, "Your session has expired. Please log in again.")
	}
	if stderrors.Is(err, context.Canceled) {
		return Wrap(KindCanceled, err, "Request was canceled")
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return Wrap(KindTimeout, err, "Request timed out")
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return Wrap(KindTimeout, err, "Request timed out")
	}

	s := err.Error()
	switch {
	case strings.Contains(s, "timeout") || strings.Contains(s, "deadline exceeded"):
		return Wrap(KindTimeout, err, "Request timed out")
	case strings.Contains(s, "no such host"):
		return Wrap(KindNetwork, err, NetworkMessage).withCode("dns_error")
	case strings.Contains(s, "connection refused"):
		return Wrap(KindNetwork, err, NetworkMessage).withCode("connection_refused")
	case strings.Contains(s, "connection reset") || strings.Contains(s, "EOF"):
		return Wrap(KindNetwork, err, NetworkMessage).withCode("connection_reset")
	case strings.Contains(s, "certificate") || strings.Contains(s, "tls"):
		return Wrap(KindNetwork, err, NetworkMessage).withCode("tls_error")
	default:
		return Wrap(KindNetwork, err, NetworkMessage)
	}
}
