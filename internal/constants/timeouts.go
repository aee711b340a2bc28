package constants

import "time"

const (
	// DefaultClientTimeout bounds a single call on the default client.
	DefaultClientTimeout = 10 * time.Second
	// HeavyClientTimeout bounds large uploads (chapter bodies, novel covers).
	HeavyClientTimeout = 30 * time.Second
	// LightClientTimeout bounds search and other small lookups.
	LightClientTimeout = 5 * time.Second
	// RefreshTimeout bounds the token refresh call.
	RefreshTimeout = 15 * time.Second
	// PersistTimeout bounds writes to the credential source.
	PersistTimeout = 3 * time.Second
	// WatchDebounce coalesces bursts of file events.
	WatchDebounce = 100 * time.Millisecond
	// ServerShutdownTimeout bounds graceful HTTP server shutdown.
	ServerShutdownTimeout = 10 * time.Second
)
