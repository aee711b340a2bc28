package events

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Topic names published by the access layer.
const (
	TopicConfigUpdated  = "config.updated"
	TopicAuthState      = "auth.state"
	TopicTokenRotated   = "auth.rotated"
	TopicSessionExpired = "session.expired"
	TopicNavigate       = "navigate"
)

// AuthState is the payload of TopicAuthState.
type AuthState struct {
	Authenticated bool `json:"authenticated"`
}

// SessionExpired is the payload of TopicSessionExpired.
type SessionExpired struct {
	Reason   string `json:"reason"`
	Redirect string `json:"redirect"`
}

// Event represents a published message on the event bus.
type Event struct {
	Topic     string            `json:"topic"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   any               `json:"payload,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Handler processes an incoming event.
type Handler func(context.Context, Event)

// Publisher exposes the ability to publish events to the hub.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any, metadata map[string]string)
}

// Subscriber exposes subscription capabilities.
type Subscriber interface {
	Subscribe(topic string, handler Handler) func()
}

// Hub is a lightweight in-process pub/sub event bus.
// Handlers run synchronously on the publishing goroutine, in subscription order.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[int64]Handler
	nextID int64
}

// NewHub constructs a new empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int64]Handler)}
}

// Subscribe registers a handler for the given topic and returns its unsubscribe func.
func (h *Hub) Subscribe(topic string, handler Handler) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	if _, ok := h.subs[topic]; !ok {
		h.subs[topic] = make(map[int64]Handler)
	}
	h.subs[topic][id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if listeners, ok := h.subs[topic]; ok {
				delete(listeners, id)
				if len(listeners) == 0 {
					delete(h.subs, topic)
				}
			}
		})
	}
}

// Publish dispatches an event to all subscribers of the topic.
func (h *Hub) Publish(ctx context.Context, topic string, payload any, metadata map[string]string) {
	if h == nil {
		return
	}
	event := Event{
		Topic:     topic,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
		Metadata:  metadata,
	}
	for _, handler := range h.snapshot(topic) {
		handler(ctx, event)
	}
}

// Subscribers reports how many handlers listen on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}

func (h *Hub) snapshot(topic string) []Handler {
	h.mu.RLock()
	defer h.mu.RUnlock()

	listeners := h.subs[topic]
	if len(listeners) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(listeners))
	for id := range listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]Handler, 0, len(ids))
	for _, id := range ids {
		out = append(out, listeners[id])
	}
	return out
}

// PublishFunc adapts a function to the Publisher interface.
type PublishFunc func(ctx context.Context, topic string, payload any, metadata map[string]string)

// Publish implements Publisher.
func (f PublishFunc) Publish(ctx context.Context, topic string, payload any, metadata map[string]string) {
	f(ctx, topic, payload, metadata)
}
