package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failed call for callers and logs.
type Kind string

const (
	KindNetwork       Kind = "network"
	KindTimeout       Kind = "timeout"
	KindCanceled      Kind = "canceled"
	KindRateLimited   Kind = "rate_limited"
	KindAuthExpired   Kind = "auth_expired"
	KindRefreshFailed Kind = "refresh_failed"
	KindBadRequest    Kind = "bad_request"
	KindForbidden     Kind = "forbidden"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindValidation    Kind = "validation"
	KindServer        Kind = "server"
	KindDecode        Kind = "decode"
	KindUnknown       Kind = "unknown"
)

var (
	// ErrRefreshFailed marks a terminal refresh failure; the session is gone.
	ErrRefreshFailed = stderrors.New("token refresh failed")
	// ErrNoRefreshToken is returned when a refresh is needed but none is stored.
	ErrNoRefreshToken = stderrors.New("no refresh token available")
)

// APIError represents a standardized failure of a backend call.
type APIError struct {
	Kind          Kind
	HTTPStatus    int
	Code          string
	Message       string
	// ServerMessage is the text the backend sent, empty when Message is a default.
	ServerMessage string
	Details       map[string]interface{}
	Err           error
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
