package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/credential"
	apierrors "github.com/maugus0/yushan-platform-frontend-sub001/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestNoTokenSendsNoAuthorizationHeader(t *testing.T) {
	fb := newFakeBackend(t, "A1", TokenResponse{})
	set := newTestSet(t, testConfig(fb.baseURL()), credential.NewStore())

	err := set.Default.GetJSON(context.Background(), "/data", nil, nil)
	require.True(t, apierrors.IsKind(err, apierrors.KindAuthExpired))

	require.Equal(t, []string{""}, fb.authHeaders())
	require.Zero(t, fb.refreshCalls.Load())
}

func TestTokenAttachedAsBearer(t *testing.T) {
	fb := newFakeBackend(t, "A1", TokenResponse{})
	store := credential.NewStore()
	store.Set("A1", "R1", time.Hour)
	set := newTestSet(t, testConfig(fb.baseURL()), store)

	var out dataPayload
	require.NoError(t, set.Light.GetJSON(context.Background(), "/data", nil, &out))
	require.Equal(t, "Bearer A1", out.Data.Auth)
	require.Zero(t, fb.refreshCalls.Load())
}

func TestExampleScenarioConcurrentExpiry(t *testing.T) {
	fb := newFakeBackend(t, "A2", TokenResponse{AccessToken: "A2", RefreshToken: "R2", ExpiresIn: time.Hour})
	store := credential.NewStore()
	store.Set("A1", "R1", time.Minute)
	handler := &countingHandler{}
	set := newTestSet(t, testConfig(fb.baseURL()), store, WithUnauthorizedHandler(handler))

	release := fb.holdRefresh()
	const n = 3
	results := make([]dataPayload, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = set.Default.GetJSON(context.Background(), "/data", nil, &results[i])
		}(i)
	}
	require.Eventually(t, func() bool { return fb.denied.Load() == n }, 3*time.Second, 5*time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, "Bearer A2", results[i].Data.Auth)
	}
	require.EqualValues(t, 1, fb.refreshCalls.Load())
	require.JSONEq(t, `{"refreshToken":"R1"}`, fb.refreshBody.Load().(string))

	snap := store.Snapshot()
	require.Equal(t, "A2", snap.AccessToken)
	require.Equal(t, "R2", snap.RefreshToken)
	require.WithinDuration(t, time.Now().Add(time.Hour), snap.ExpiresAt, 5*time.Second)
	require.Zero(t, handler.calls.Load())
}

func TestSingleFlightRefreshUnderLoad(t *testing.T) {
	fb := newFakeBackend(t, "A2", TokenResponse{AccessToken: "A2", RefreshToken: "R2"})
	store := credential.NewStore()
	store.Set("A1", "R1", 0)
	set := newTestSet(t, testConfig(fb.baseURL()), store)

	release := fb.holdRefresh()
	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	clients := []*Client{set.Default, set.Heavy, set.Light}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			var out dataPayload
			if err := c.GetJSON(context.Background(), "/data", nil, &out); err != nil {
				errs <- err
				return
			}
			if out.Data.Auth != "Bearer A2" {
				errs <- errors.New("replayed with " + out.Data.Auth)
			}
		}(clients[i%len(clients)])
	}
	require.Eventually(t, func() bool { return fb.denied.Load() == n }, 3*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, fb.refreshCalls.Load())
	require.EqualValues(t, 1, set.Coordinator().Refreshes())
	require.False(t, set.Coordinator().Refreshing())
	// every request went out once with A1 and once with A2
	require.EqualValues(t, 2*n, fb.dataCalls.Load())
}

func TestReplayedRequestIsNotRetriedAgain(t *testing.T) {
	fb := newFakeBackend(t, "A1", TokenResponse{AccessToken: "A2", RefreshToken: "R2"})
	fb.alwaysDeny = true
	store := credential.NewStore()
	store.Set("A1", "R1", 0)
	handler := &countingHandler{}
	set := newTestSet(t, testConfig(fb.baseURL()), store, WithUnauthorizedHandler(handler))

	err := set.Default.GetJSON(context.Background(), "/data", nil, nil)
	require.True(t, apierrors.IsKind(err, apierrors.KindAuthExpired), "got %v", err)

	require.EqualValues(t, 2, fb.dataCalls.Load())
	require.EqualValues(t, 1, fb.refreshCalls.Load())
	require.Equal(t, []string{"Bearer A1", "Bearer A2"}, fb.authHeaders())
	// a rejected replay is not a failed refresh
	require.Zero(t, handler.calls.Load())
	require.Equal(t, "A2", store.AccessToken())
}

func TestRefreshFailureFansOutAndLogsOutOnce(t *testing.T) {
	fb := newFakeBackend(t, "A2", TokenResponse{})
	fb.refreshFail = http.StatusUnauthorized
	store := credential.NewStore()
	store.Set("A1", "R1", time.Minute)
	handler := &countingHandler{}
	set := newTestSet(t, testConfig(fb.baseURL()), store, WithUnauthorizedHandler(handler))

	release := fb.holdRefresh()
	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = set.Default.GetJSON(context.Background(), "/data", nil, nil)
		}(i)
	}
	require.Eventually(t, func() bool { return fb.denied.Load() == n }, 3*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		require.Error(t, err)
		require.True(t, apierrors.IsKind(err, apierrors.KindRefreshFailed), "got %v", err)
		require.ErrorIs(t, err, apierrors.ErrRefreshFailed)
	}
	require.EqualValues(t, 1, fb.refreshCalls.Load())
	require.EqualValues(t, 1, handler.calls.Load())
	require.False(t, store.IsAuthenticated())
	require.Empty(t, store.RefreshToken())
	require.True(t, store.ExpiresAt().IsZero())
	// nothing was replayed
	require.EqualValues(t, n, fb.dataCalls.Load())
}

func TestUnauthenticated401PassesThrough(t *testing.T) {
	fb := newFakeBackend(t, "A1", TokenResponse{})
	handler := &countingHandler{}
	set := newTestSet(t, testConfig(fb.baseURL()), credential.NewStore(), WithUnauthorizedHandler(handler))

	req, err := set.Default.NewRequest(context.Background(), http.MethodGet, "/data", nil, nil)
	require.NoError(t, err)
	resp, err := set.Default.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Zero(t, fb.refreshCalls.Load())
	require.Zero(t, handler.calls.Load())
}

func TestSkipAuthRefreshPassesThrough(t *testing.T) {
	fb := newFakeBackend(t, "A9", TokenResponse{AccessToken: "A2"})
	store := credential.NewStore()
	store.Set("A1", "R1", 0)
	set := newTestSet(t, testConfig(fb.baseURL()), store)

	err := set.Default.PostJSON(SkipAuthRefresh(context.Background()), "/data", map[string]string{"email": "x"}, nil)
	require.True(t, apierrors.IsKind(err, apierrors.KindAuthExpired))
	require.Zero(t, fb.refreshCalls.Load())
	require.Equal(t, "A1", store.AccessToken())
}

func TestMissingRefreshTokenIsTerminal(t *testing.T) {
	fb := newFakeBackend(t, "A2", TokenResponse{AccessToken: "A2"})
	store := credential.NewStore()
	store.Set("A1", "", 0)
	handler := &countingHandler{}
	set := newTestSet(t, testConfig(fb.baseURL()), store, WithUnauthorizedHandler(handler))

	err := set.Default.GetJSON(context.Background(), "/data", nil, nil)
	require.True(t, apierrors.IsKind(err, apierrors.KindRefreshFailed))
	require.ErrorIs(t, err, apierrors.ErrNoRefreshToken)
	require.Zero(t, fb.refreshCalls.Load())
	require.EqualValues(t, 1, handler.calls.Load())
	require.False(t, store.IsAuthenticated())
}

func TestReplayResendsBody(t *testing.T) {
	fb := newFakeBackend(t, "A2", TokenResponse{AccessToken: "A2", RefreshToken: "R2"})
	store := credential.NewStore()
	store.Set("A1", "R1", 0)
	set := newTestSet(t, testConfig(fb.baseURL()), store)

	require.NoError(t, set.Heavy.PostJSON(context.Background(), "/data", map[string]string{"title": "Dragon"}, nil))

	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.Len(t, fb.seenBodies, 2)
	require.JSONEq(t, `{"title":"Dragon"}`, fb.seenBodies[0])
	require.Equal(t, fb.seenBodies[0], fb.seenBodies[1])
}

func TestLateArrivalUsesRefreshedToken(t *testing.T) {
	fb := newFakeBackend(t, "A2", TokenResponse{AccessToken: "A2", RefreshToken: "R2"})
	store := credential.NewStore()
	store.Set("A1", "R1", 0)
	set := newTestSet(t, testConfig(fb.baseURL()), store)

	require.NoError(t, set.Default.GetJSON(context.Background(), "/data", nil, nil))
	require.EqualValues(t, 1, fb.refreshCalls.Load())

	// a response to an old token arriving after the refresh completed
	tok, err := set.Coordinator().Await(context.Background(), "A1")
	require.NoError(t, err)
	require.Equal(t, "A2", tok)
	require.EqualValues(t, 1, fb.refreshCalls.Load())
}

func TestSlowRejectionAfterFailedRefreshLogsOutOnce(t *testing.T) {
	var dataCalls, refreshCalls atomic.Int64
	headersSent := make(chan struct{})
	loggedOut := make(chan struct{})
	var once sync.Once

	mux := http.NewServeMux()
	mux.HandleFunc("/api/data", func(w http.ResponseWriter, r *http.Request) {
		if dataCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"message":"Token expired"}`))
			return
		}
		// the second rejection's body is still in transit while the session ends
		w.WriteHeader(http.StatusUnauthorized)
		w.(http.Flusher).Flush()
		close(headersSent)
		select {
		case <-loggedOut:
		case <-time.After(5 * time.Second):
		}
		_, _ = w.Write([]byte(`{"code":401,"message":"Token expired"}`))
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		<-headersSent
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":401,"message":"Refresh token expired"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store := credential.NewStore()
	store.Set("A1", "R1", 0)
	var handled atomic.Int64
	handler := UnauthorizedFunc(func(context.Context, error) {
		handled.Add(1)
		once.Do(func() { close(loggedOut) })
	})
	set := newTestSet(t, testConfig(srv.URL+"/api"), store, WithUnauthorizedHandler(handler))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = set.Default.GetJSON(context.Background(), "/data", nil, nil)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.True(t, apierrors.IsKind(err, apierrors.KindRefreshFailed), "got %v", err)
	}
	require.EqualValues(t, 2, dataCalls.Load())
	require.EqualValues(t, 1, refreshCalls.Load())
	require.EqualValues(t, 1, handled.Load())
	require.False(t, store.IsAuthenticated())
}
