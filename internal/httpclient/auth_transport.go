package httpclient

import (
	"io"
	"net/http"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/credential"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/logging"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/monitoring"

	log "github.com/sirupsen/logrus"
)

const maxDrainBytes = 64 << 10

// authTransport attaches the bearer token and recovers from a single 401 by
// waiting on the coordinator and replaying through next. next never
// authenticates, so a replay cannot trigger another refresh.
type authTransport struct {
	client      string
	store       *credential.Store
	interceptor *Interceptor
	coordinator *Coordinator
	next        http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	pr, err := capture(req)
	if err != nil {
		return nil, err
	}
	out, err := pr.build("")
	if err != nil {
		return nil, err
	}
	pr.SentToken = t.interceptor.Apply(out)
	pr.Header = out.Header.Clone()
	gen := t.coordinator.Generation()

	resp, err := t.next.RoundTrip(out)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	if pr.Retried || skipAuthRefresh(req.Context()) {
		return resp, nil
	}
	if snap := t.store.Snapshot(); snap.AccessToken == "" && snap.RefreshToken == "" {
		// no session to recover
		return resp, nil
	}

	drain(resp)
	entry := logging.WithRequest(out, log.Fields{"client": t.client})
	entry.Debug("received 401, waiting for token refresh")

	token, err := t.coordinator.AwaitSince(req.Context(), pr.SentToken, gen)
	if err != nil {
		monitoring.RecordReplay("refresh_failed")
		return nil, err
	}

	pr.Retried = true
	replay, err := pr.build(token)
	if err != nil {
		return nil, err
	}
	resp, err = t.next.RoundTrip(replay)
	switch {
	case err != nil:
		monitoring.RecordReplay("error")
	case resp.StatusCode == http.StatusUnauthorized:
		monitoring.RecordReplay("unauthorized")
		entry.Warn("replayed request rejected again")
	default:
		monitoring.RecordReplay("success")
	}
	return resp, err
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
	_ = resp.Body.Close()
}
