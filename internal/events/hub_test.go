package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHubDeliversInSubscriptionOrder(t *testing.T) {
	hub := NewHub()
	var order []int
	for i := 1; i <= 5; i++ {
		i := i
		hub.Subscribe(TopicAuthState, func(_ context.Context, evt Event) {
			require.Equal(t, TopicAuthState, evt.Topic)
			order = append(order, i)
		})
	}

	hub.Publish(context.Background(), TopicAuthState, AuthState{Authenticated: true}, nil)
	require.Equal(t, []int{1, 2, 3, 4, 5}, order)
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()
	calls := 0
	unsub := hub.Subscribe(TopicSessionExpired, func(context.Context, Event) { calls++ })
	require.Equal(t, 1, hub.Subscribers(TopicSessionExpired))

	hub.Publish(context.Background(), TopicSessionExpired, nil, nil)
	unsub()
	unsub()
	hub.Publish(context.Background(), TopicSessionExpired, nil, nil)

	require.Equal(t, 1, calls)
	require.Zero(t, hub.Subscribers(TopicSessionExpired))
}

func TestHubIgnoresOtherTopics(t *testing.T) {
	hub := NewHub()
	hub.Subscribe(TopicNavigate, func(context.Context, Event) { t.Fatal("unexpected delivery") })
	hub.Publish(context.Background(), TopicTokenRotated, nil, nil)
}

func TestNilHubPublishIsNoop(t *testing.T) {
	var hub *Hub
	require.NotPanics(t, func() { hub.Publish(context.Background(), TopicAuthState, nil, nil) })
}
