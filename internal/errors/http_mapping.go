package errors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/constants"
	"github.com/tidwall/gjson"
)

// messagePaths lists where the backend puts a human readable message.
var messagePaths = []string{"message", "error.message", "error", "data.message"}

// MapHTTPError maps a non-2xx status and its body to an APIError.
// The server's message wins over the default text.
func MapHTTPError(statusCode int, body []byte) *APIError {
	msg := extractServerMessage(body)

	var e *APIError
	switch {
	case statusCode == http.StatusBadRequest:
		e = New(KindBadRequest, statusCode, "bad_request", firstNonEmpty(msg, "Invalid request"))
	case statusCode == http.StatusUnauthorized:
		e = New(KindAuthExpired, statusCode, "unauthorized", firstNonEmpty(msg, "Your session has expired"))
	case statusCode == http.StatusForbidden:
		e = New(KindForbidden, statusCode, "forbidden", firstNonEmpty(msg, "You do not have permission to do that"))
	case statusCode == http.StatusNotFound:
		e = New(KindNotFound, statusCode, "not_found", firstNonEmpty(msg, "Resource not found"))
	case statusCode == http.StatusRequestTimeout || statusCode == http.StatusGatewayTimeout:
		e = New(KindTimeout, statusCode, "timeout", firstNonEmpty(msg, "Request timed out"))
	case statusCode == http.StatusConflict:
		e = New(KindConflict, statusCode, "conflict", firstNonEmpty(msg, "Resource already exists"))
	case statusCode == http.StatusUnprocessableEntity:
		e = New(KindValidation, statusCode, "validation_failed", firstNonEmpty(msg, "Validation failed"))
	case statusCode == http.StatusTooManyRequests:
		e = New(KindRateLimited, statusCode, "rate_limited", firstNonEmpty(msg, "Too many requests, please slow down"))
	case statusCode >= 500:
		e = New(KindServer, statusCode, "server_error", firstNonEmpty(msg, "Server error, please try again later"))
	default:
		e = New(KindUnknown, statusCode, "unknown_error", firstNonEmpty(msg, fmt.Sprintf("HTTP %d error", statusCode)))
	}
	e.ServerMessage = msg
	if errs := gjson.GetBytes(body, "errors"); errs.Exists() && errs.IsObject() {
		if fields, ok := errs.Value().(map[string]interface{}); ok {
			e.Details = fields
		}
	}
	return e
}

func extractServerMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if gjson.ValidBytes(body) {
		for _, path := range messagePaths {
			if r := gjson.GetBytes(body, path); r.Type == gjson.String && strings.TrimSpace(r.Str) != "" {
				return r.Str
			}
		}
		return ""
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > constants.MaxErrorMessageLength {
		return msg[:constants.MaxErrorMessageLength] + "..."
	}
	return msg
}

func firstNonEmpty(strs ...string) string {
	for _, s := range strs {
		if s != "" {
			return s
		}
	}
	return ""
}
