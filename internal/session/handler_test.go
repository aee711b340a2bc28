package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/events"
	"github.com/stretchr/testify/require"
)

func TestLoginURL(t *testing.T) {
	require.Equal(t, "/login?expired=true", LoginURL("/login"))
	require.Equal(t, "/login?expired=true&next=%2Fnovels", LoginURL("/login?next=/novels"))
	require.Equal(t, "https://yushan.example/login?expired=true", LoginURL("https://yushan.example/login"))
}

func TestHandleUnauthorized(t *testing.T) {
	hub := events.NewHub()
	var (
		mu        sync.Mutex
		notices   []string
		redirects []string
		expired   []events.SessionExpired
	)
	hub.Subscribe(events.TopicNavigate, func(_ context.Context, evt events.Event) {
		mu.Lock()
		defer mu.Unlock()
		redirects = append(redirects, evt.Payload.(string))
	})
	hub.Subscribe(events.TopicSessionExpired, func(_ context.Context, evt events.Event) {
		mu.Lock()
		defer mu.Unlock()
		expired = append(expired, evt.Payload.(events.SessionExpired))
	})

	h := NewHandler("/login",
		WithNotifier(NotifyFunc(func(_ context.Context, msg string) {
			mu.Lock()
			defer mu.Unlock()
			notices = append(notices, msg)
		})),
		WithNavigator(EventNavigator{Publisher: hub}),
		WithPublisher(hub),
	)
	h.HandleUnauthorized(context.Background(), errors.New("refresh token revoked"))

	require.Equal(t, []string{ExpiredMessage}, notices)
	require.Equal(t, []string{"/login?expired=true"}, redirects)
	require.Len(t, expired, 1)
	require.Equal(t, "refresh token revoked", expired[0].Reason)
	require.Equal(t, "/login?expired=true", expired[0].Redirect)
}

func TestHandlerDefaults(t *testing.T) {
	var target string
	h := NewHandler("", WithNavigator(NavigateFunc(func(_ context.Context, to string) { target = to })))
	h.HandleUnauthorized(context.Background(), nil)
	require.Equal(t, "/login?expired=true", target)

	// no navigator and no publisher is still safe
	NewHandler("/signin").HandleUnauthorized(context.Background(), nil)
	EventNavigator{}.Navigate(context.Background(), "/x")
}
