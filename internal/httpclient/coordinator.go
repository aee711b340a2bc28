package httpclient

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/constants"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/credential"
	apierrors "github.com/maugus0/yushan-platform-frontend-sub001/internal/errors"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/monitoring"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/monitoring/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// TokenResponse is a freshly issued credential.
type TokenResponse struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// RefreshFunc obtains a new credential. It must not go through the
// authenticating transport.
type RefreshFunc func(ctx context.Context) (TokenResponse, error)

// UnauthorizedHandler runs once after a refresh fails for good.
type UnauthorizedHandler interface {
	HandleUnauthorized(ctx context.Context, err error)
}

// UnauthorizedFunc adapts a function to UnauthorizedHandler.
type UnauthorizedFunc func(ctx context.Context, err error)

// HandleUnauthorized implements UnauthorizedHandler.
func (f UnauthorizedFunc) HandleUnauthorized(ctx context.Context, err error) { f(ctx, err) }

type refreshResult struct {
	token string
	err   error
}

// Coordinator makes every request that hits a 401 share one refresh.
// While a refresh is in flight later arrivals queue up; when it settles the
// queue is detached and the in-flight flag cleared under the same lock, then
// every waiter receives the same result. On failure the UnauthorizedHandler
// runs once, before the result is delivered.
//
// Each settled refresh bumps a generation. A 401 for a request sent before
// the latest refresh settled is answered from that refresh's outcome, so a
// late arrival never starts a second refresh against a session that was
// already cleared.
type Coordinator struct {
	store     *credential.Store
	refresh   RefreshFunc
	onFailure UnauthorizedHandler
	timeout   time.Duration

	mu         sync.Mutex
	refreshing bool
	waiters    []chan refreshResult
	settled    uint64
	last       refreshResult

	flights atomic.Int64
}

// NewCoordinator builds a coordinator. onFailure may be nil.
func NewCoordinator(store *credential.Store, refresh RefreshFunc, onFailure UnauthorizedHandler, timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = constants.RefreshTimeout
	}
	return &Coordinator{
		store:     store,
		refresh:   refresh,
		onFailure: onFailure,
		timeout:   timeout,
	}
}

// Refreshes reports how many refresh calls have been started.
func (c *Coordinator) Refreshes() int64 { return c.flights.Load() }

// Refreshing reports whether a refresh is in flight.
func (c *Coordinator) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshing
}

// Generation reports how many refreshes have settled. Capture it before
// sending a request and pass it to AwaitSince if that request gets a 401.
func (c *Coordinator) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settled
}

// Await is AwaitSince for a request sent at the current generation.
func (c *Coordinator) Await(ctx context.Context, staleToken string) (string, error) {
	return c.AwaitSince(ctx, staleToken, c.Generation())
}

// AwaitSince returns an access token newer than staleToken, refreshing if
// needed. sent is the generation observed when the rejected request went out.
// The first caller while idle starts the refresh; everyone else joins the queue.
// If a refresh failed after the request was sent, its error is returned.
// If the store already holds a different token and nothing is in flight, that
// token is returned without another refresh. With no session left at all the
// call fails without refreshing or running the UnauthorizedHandler.
// Abandoning the wait via ctx does not cancel the shared refresh.
func (c *Coordinator) AwaitSince(ctx context.Context, staleToken string, sent uint64) (string, error) {
	ch := make(chan refreshResult, 1)

	c.mu.Lock()
	if !c.refreshing {
		if c.settled != sent && c.last.err != nil {
			err := c.last.err
			c.mu.Unlock()
			return "", err
		}
		snap := c.store.Snapshot()
		if snap.AccessToken != "" && snap.AccessToken != staleToken {
			c.mu.Unlock()
			return snap.AccessToken, nil
		}
		if snap.AccessToken == "" && snap.RefreshToken == "" {
			err := c.last.err
			c.mu.Unlock()
			if err == nil {
				err = sessionExpired(apierrors.ErrNoRefreshToken)
			}
			return "", err
		}
		c.refreshing = true
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()
		c.flights.Add(1)
		go c.run()
	} else {
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()
	}

	select {
	case res := <-ch:
		return res.token, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Coordinator) run() {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	ctx, span := tracing.StartSpan(ctx, "httpclient", "auth.refresh")
	defer span.End()

	start := time.Now()
	tok, err := c.invoke(ctx)

	var res refreshResult
	if err != nil {
		res.err = sessionExpired(err)
		c.store.Clear()
	} else {
		c.store.Set(tok.AccessToken, tok.RefreshToken, tok.ExpiresIn)
		res.token = tok.AccessToken
	}

	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.refreshing = false
	c.settled++
	c.last = refreshResult{err: res.err}
	c.mu.Unlock()

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	monitoring.RecordRefresh(outcome, len(waiters), time.Since(start))
	span.SetAttributes(attribute.Int("refresh.waiters", len(waiters)), attribute.String("refresh.outcome", outcome))

	if err != nil {
		tracing.Fail(span, err)
		log.WithError(err).WithField("waiters", len(waiters)).Warn("token refresh failed, session cleared")
		monitoring.RecordSessionExpired()
		// the side effect completes before any waiter sees the error
		if c.onFailure != nil {
			c.onFailure.HandleUnauthorized(context.Background(), res.err)
		}
	} else {
		log.WithFields(log.Fields{
			"waiters":    len(waiters),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Info("token refreshed")
	}

	for _, w := range waiters {
		w <- res
	}
}

func sessionExpired(cause error) error {
	return &apierrors.APIError{
		Kind:    apierrors.KindRefreshFailed,
		Code:    string(apierrors.KindRefreshFailed),
		Message: "Your session has expired. Please log in again.",
		Err:     errors.Join(apierrors.ErrRefreshFailed, cause),
	}
}

// invoke runs the refresh function, turning a panic into an error so the
// queue always drains.
func (c *Coordinator) invoke(ctx context.Context) (tok TokenResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("refresh panicked: %v", r)
		}
	}()
	tok, err = c.refresh(ctx)
	if err == nil && tok.AccessToken == "" {
		err = errors.New("refresh returned an empty access token")
	}
	return tok, err
}
