package errors

import (
	stderrors "errors"
	"net/http"
	"time"
)

// New builds an APIError.
func New(kind Kind, httpStatus int, code, message string) *APIError {
	return &APIError{Kind: kind, HTTPStatus: httpStatus, Code: code, Message: message}
}

// Wrap builds an APIError around a cause.
func Wrap(kind Kind, err error, message string) *APIError {
	return &APIError{Kind: kind, Code: string(kind), Message: message, Err: err}
}

func (e *APIError) withCode(code string) *APIError {
	e.Code = code
	return e
}

// WithDetails attaches structured details.
func (e *APIError) WithDetails(details map[string]interface{}) *APIError {
	e.Details = details
	return e
}

// WithMessage returns a copy of e carrying message. Errors may be shared
// between callers, so e itself is left untouched.
func (e *APIError) WithMessage(message string) *APIError {
	cp := *e
	cp.Message = message
	return &cp
}

// As extracts an APIError from err.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, mapping plain transport errors on the way.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if apiErr, ok := As(err); ok {
		return apiErr.Kind
	}
	return MapTransportError(err).Kind
}

// IsKind reports whether err classifies as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsRetryable reports whether a caller may reasonably try again later.
func (e *APIError) IsRetryable() bool {
	switch e.Kind {
	case KindNetwork, KindTimeout, KindRateLimited:
		return true
	case KindServer:
		return e.HTTPStatus != http.StatusNotImplemented
	}
	return false
}

// IsSessionEnded reports whether the user has to log in again.
func (e *APIError) IsSessionEnded() bool {
	return e.Kind == KindRefreshFailed || e.Kind == KindAuthExpired
}

// RetryAfter returns the server hint stored in Details, if any.
func (e *APIError) RetryAfter() (time.Duration, bool) {
	if e.Details == nil {
		return 0, false
	}
	switch v := e.Details["retry_after"].(type) {
	case time.Duration:
		return v, true
	case int:
		return time.Duration(v) * time.Second, true
	case float64:
		return time.Duration(v * float64(time.Second)), true
	}
	return 0, false
}
