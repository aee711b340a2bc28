package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/constants"
	apierrors "github.com/maugus0/yushan-platform-frontend-sub001/internal/errors"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/logging"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/monitoring"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/monitoring/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Client is one named, rate-limited, authenticating HTTP client.
type Client struct {
	name    string
	baseURL *url.URL
	http    *http.Client
	limiter *limitedTransport
}

// Name returns default, heavy or light.
func (c *Client) Name() string { return c.name }

// Budget returns the current request budget.
func (c *Client) Budget() Budget { return c.limiter.Budget() }

// Timeout returns the per-call timeout.
func (c *Client) Timeout() time.Duration { return c.http.Timeout }

// URL resolves path against the base URL.
func (c *Client) URL(path string, query url.Values) *url.URL {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u
}

// NewRequest builds a request against the base URL. body may be nil, a
// []byte / json.RawMessage of encoded JSON, or any value to marshal.
func (c *Client) NewRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var reader io.Reader
	switch v := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(v)
	case json.RawMessage:
		reader = bytes.NewReader(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, apierrors.Wrap(apierrors.KindBadRequest, err, "Could not encode request")
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path, query).String(), reader)
	if err != nil {
		return nil, apierrors.Wrap(apierrors.KindBadRequest, err, "Could not build request")
	}
	if reader != nil {
		req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}
	return req, nil
}

// Do sends req. Transport failures come back as *errors.APIError; HTTP error
// statuses are returned as responses for the caller to map.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx, span := tracing.StartSpan(req.Context(), "httpclient", "HTTP "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.client", c.name),
			attribute.String("http.method", req.Method),
			attribute.String("url.path", req.URL.Path),
		),
	)
	defer span.End()
	req = req.WithContext(ctx)
	tracing.Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(start)
	outcome := Classify(resp, err)
	monitoring.RecordClientRequest(c.name, outcome, latency)

	entry := logging.WithRequest(req, log.Fields{
		"client":     c.name,
		"outcome":    outcome,
		"latency_ms": logging.DurationMS(latency),
	})
	if err != nil {
		apiErr := apierrors.MapTransportError(err)
		if outcome == OutcomeRateLimited {
			monitoring.RecordRateLimited(c.name, "client")
		}
		tracing.Fail(span, apiErr)
		entry.WithError(err).Warn("request failed")
		return nil, apiErr
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode == http.StatusTooManyRequests {
		monitoring.RecordRateLimited(c.name, "server")
		entry.Warn("server rate limited request")
	} else {
		entry.WithField("status", resp.StatusCode).Debug("request completed")
	}
	return resp, nil
}

// JSON performs a call and decodes a 2xx body into out (when non-nil).
// Non-2xx responses are mapped with errors.MapHTTPError.
func (c *Client) JSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	req, err := c.NewRequest(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierrors.MapTransportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := apierrors.MapHTTPError(resp.StatusCode, data)
		if resp.StatusCode == http.StatusTooManyRequests {
			rl := &RateLimitError{Client: c.name, Budget: c.Budget(), Server: true}
			if d, ok := parseRetryAfter(resp.Header.Get(constants.HeaderRetryAfter)); ok {
				rl.RetryAfter = d
				apiErr.Details = map[string]interface{}{"retry_after": d}
			}
			apiErr.Err = rl
		}
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apierrors.Wrap(apierrors.KindDecode, err, "Unexpected response from server")
	}
	return nil
}

// GetJSON issues a GET.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.JSON(ctx, http.MethodGet, path, query, nil, out)
}

// PostJSON issues a POST.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	return c.JSON(ctx, http.MethodPost, path, nil, in, out)
}

// PutJSON issues a PUT.
func (c *Client) PutJSON(ctx context.Context, path string, in, out any) error {
	return c.JSON(ctx, http.MethodPut, path, nil, in, out)
}

// PatchJSON issues a PATCH.
func (c *Client) PatchJSON(ctx context.Context, path string, in, out any) error {
	return c.JSON(ctx, http.MethodPatch, path, nil, in, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.JSON(ctx, http.MethodDelete, path, nil, nil, out)
}
