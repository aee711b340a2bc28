package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/monitoring"

	"golang.org/x/time/rate"
)

// Budget is a request allowance: at most MaxRequests per Window. A call may
// queue up to MaxWait for budget; zero means wait as long as the request
// context allows.
type Budget struct {
	MaxRequests int
	Window      time.Duration
	MaxWait     time.Duration
}

func (b Budget) limit() rate.Limit {
	if b.MaxRequests <= 0 || b.Window <= 0 {
		return rate.Inf
	}
	return rate.Every(b.Window / time.Duration(b.MaxRequests))
}

func (b Budget) burst() int {
	if b.MaxRequests <= 0 {
		return 1
	}
	return b.MaxRequests
}

func (b Budget) String() string {
	return fmt.Sprintf("%d/%s", b.MaxRequests, b.Window)
}

// RateLimitError is returned when a call could not obtain budget in time,
// or when the server answered 429.
type RateLimitError struct {
	Client string
	Budget Budget
	// Server is true for a 429 response rather than a local rejection.
	Server bool
	// RetryAfter is the server's hint, zero when absent.
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.Server {
		return fmt.Sprintf("rate limit: %s client rejected by server (retry after %v)", e.Client, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit: %s client budget %s exhausted (waited up to %v)", e.Client, e.Budget, e.Budget.MaxWait)
}

// RateLimited marks the error for the error taxonomy.
func (e *RateLimitError) RateLimited() bool { return true }

// IsRateLimitError reports whether err carries a RateLimitError.
func IsRateLimitError(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// limitedTransport enforces a Budget before handing the request to next.
type limitedTransport struct {
	client string
	lim    *rate.Limiter
	next   http.RoundTripper

	mu     sync.RWMutex
	budget Budget
}

func newLimitedTransport(client string, b Budget, next http.RoundTripper) *limitedTransport {
	monitoring.SetClientBudget(client, b.MaxRequests, b.Window)
	return &limitedTransport{
		client: client,
		lim:    rate.NewLimiter(b.limit(), b.burst()),
		next:   next,
		budget: b,
	}
}

func (t *limitedTransport) Budget() Budget {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.budget
}

// SetBudget applies a new budget without dropping queued callers.
func (t *limitedTransport) SetBudget(b Budget) {
	t.mu.Lock()
	t.budget = b
	t.mu.Unlock()
	t.lim.SetLimit(b.limit())
	t.lim.SetBurst(b.burst())
	monitoring.SetClientBudget(t.client, b.MaxRequests, b.Window)
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	budget := t.Budget()
	ctx := req.Context()
	waitCtx := ctx
	if budget.MaxWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, budget.MaxWait)
		defer cancel()
	}
	if err := t.lim.Wait(waitCtx); err != nil {
		closeBody(req)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RateLimitError{Client: t.client, Budget: budget}
	}
	return t.next.RoundTrip(req)
}

func closeBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}
