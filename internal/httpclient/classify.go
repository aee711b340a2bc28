package httpclient

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	apierrors "github.com/maugus0/yushan-platform-frontend-sub001/internal/errors"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/logging"
)

// Outcome labels used in logs and metrics.
const (
	OutcomeOK            = "ok"
	OutcomeTimeout       = "timeout"
	OutcomeRateLimited   = "rate_limited"
	OutcomeNetwork       = "network"
	OutcomeCanceled      = "canceled"
	OutcomeRefreshFailed = "refresh_failed"
)

// Classify labels a finished call. Timeouts and rate limits are kept apart
// from other failures; HTTP errors use logging.StatusKind labels.
func Classify(resp *http.Response, err error) string {
	if err != nil {
		switch apierrors.KindOf(err) {
		case apierrors.KindTimeout:
			return OutcomeTimeout
		case apierrors.KindRateLimited:
			return OutcomeRateLimited
		case apierrors.KindCanceled:
			return OutcomeCanceled
		case apierrors.KindRefreshFailed:
			return OutcomeRefreshFailed
		default:
			return OutcomeNetwork
		}
	}
	if resp == nil {
		return OutcomeNetwork
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return OutcomeRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return OutcomeTimeout
	}
	return logging.StatusKind(resp.StatusCode)
}

func parseRetryAfter(v string) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			secs = 0
		}
		return time.Duration(secs) * time.Second, true
	}
	for _, layout := range []string{time.RFC1123, time.RFC1123Z, time.RFC850, time.ANSIC} {
		if t, err := time.Parse(layout, v); err == nil {
			d := time.Until(t)
			if d < 0 {
				d = 0
			}
			return d, true
		}
	}
	return 0, false
}
