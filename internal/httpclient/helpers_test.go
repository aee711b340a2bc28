package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/credential"
	"github.com/stretchr/testify/require"
)

// fakeBackend accepts exactly one access token on /data and rotates it on
// /auth/refresh.
type fakeBackend struct {
	t   *testing.T
	srv *httptest.Server

	mu          sync.Mutex
	valid       string
	next        TokenResponse
	refreshFail int // status to fail refresh with, 0 = succeed
	gate        chan struct{}
	seenAuth    []string
	seenBodies  []string
	alwaysDeny  bool

	refreshCalls atomic.Int64
	dataCalls    atomic.Int64
	denied       atomic.Int64
	refreshBody  atomic.Value
}

func newFakeBackend(t *testing.T, valid string, next TokenResponse) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{t: t, valid: valid, next: next}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", fb.handleRefresh)
	mux.HandleFunc("/api/data", fb.handleData)
	fb.srv = httptest.NewServer(mux)
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) baseURL() string { return fb.srv.URL + "/api" }

func (fb *fakeBackend) holdRefresh() chan struct{} {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.gate = make(chan struct{})
	return fb.gate
}

func (fb *fakeBackend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	fb.refreshCalls.Add(1)
	body, _ := io.ReadAll(r.Body)
	fb.refreshBody.Store(string(body))

	fb.mu.Lock()
	gate := fb.gate
	fail := fb.refreshFail
	next := fb.next
	fb.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if fail != 0 {
		w.WriteHeader(fail)
		_, _ = w.Write([]byte(`{"code":401,"message":"Refresh token expired"}`))
		return
	}
	fb.mu.Lock()
	fb.valid = next.AccessToken
	fb.mu.Unlock()
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    200,
		"message": "ok",
		"data": map[string]any{
			"accessToken":  next.AccessToken,
			"refreshToken": next.RefreshToken,
			"expiresIn":    next.ExpiresIn.Milliseconds(),
		},
	})
}

func (fb *fakeBackend) handleData(w http.ResponseWriter, r *http.Request) {
	fb.dataCalls.Add(1)
	auth := r.Header.Get("Authorization")
	body, _ := io.ReadAll(r.Body)

	fb.mu.Lock()
	fb.seenAuth = append(fb.seenAuth, auth)
	fb.seenBodies = append(fb.seenBodies, string(body))
	ok := !fb.alwaysDeny && fb.valid != "" && auth == "Bearer "+fb.valid
	fb.mu.Unlock()

	if !ok {
		fb.denied.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":401,"message":"Token expired"}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"auth": auth}})
}

func (fb *fakeBackend) authHeaders() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.seenAuth...)
}

type countingHandler struct {
	calls atomic.Int64
	last  atomic.Value
}

func (h *countingHandler) HandleUnauthorized(_ context.Context, err error) {
	h.calls.Add(1)
	h.last.Store(err)
}

func testConfig(baseURL string) Config {
	cfg := DefaultConfig(baseURL)
	generous := Budget{MaxRequests: 1000, Window: time.Second, MaxWait: 5 * time.Second}
	cfg.Default.Budget = generous
	cfg.Heavy.Budget = generous
	cfg.Light.Budget = generous
	cfg.RefreshTimeout = 5 * time.Second
	return cfg
}

func newTestSet(t *testing.T, cfg Config, store *credential.Store, opts ...Option) *ClientSet {
	t.Helper()
	set, err := New(cfg, store, opts...)
	require.NoError(t, err)
	t.Cleanup(set.Close)
	return set
}

type dataPayload struct {
	Data struct {
		Auth string `json:"auth"`
	} `json:"data"`
}
