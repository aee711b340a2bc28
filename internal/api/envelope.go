package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	apierrors "github.com/maugus0/yushan-platform-frontend-sub001/internal/errors"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/httpclient"
)

// Envelope is the backend's response wrapper.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Page is a paged list payload.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
}

// HasNext reports whether another page follows.
func (p Page[T]) HasNext() bool { return p.Page+1 < p.TotalPages }

// messages replaces the default text for an HTTP status when the backend
// sent none.
type messages map[int]string

func (m messages) translate(err error) error {
	apiErr, ok := apierrors.As(err)
	if !ok || apiErr.ServerMessage != "" {
		return err
	}
	if msg, ok := m[apiErr.HTTPStatus]; ok {
		return apiErr.WithMessage(msg)
	}
	return err
}

// call performs one request and unwraps the envelope. A 2xx response whose
// envelope carries an error code is treated like that HTTP status.
func call[T any](ctx context.Context, c *httpclient.Client, method, path string, query url.Values, in any, msgs messages) (T, error) {
	var env Envelope[T]
	var zero T
	if err := c.JSON(ctx, method, path, query, in, &env); err != nil {
		return zero, msgs.translate(err)
	}
	if env.Code >= http.StatusBadRequest {
		apiErr := apierrors.MapHTTPError(env.Code, nil)
		if env.Message != "" {
			apiErr.Message = env.Message
			apiErr.ServerMessage = env.Message
		}
		return zero, msgs.translate(apiErr)
	}
	return env.Data, nil
}

// send is call for endpoints whose payload the caller does not need.
func send(ctx context.Context, c *httpclient.Client, method, path string, in any, msgs messages) error {
	_, err := call[json.RawMessage](ctx, c, method, path, nil, in, msgs)
	return err
}
