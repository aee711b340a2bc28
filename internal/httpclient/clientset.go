package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/config"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/constants"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/credential"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/events"

	log "github.com/sirupsen/logrus"
)

// ClientConfig is the budget and timeout of one client.
type ClientConfig struct {
	Budget  Budget
	Timeout time.Duration
}

// Config describes the whole client set.
type Config struct {
	BaseURL        string
	RefreshPath    string
	RefreshTimeout time.Duration
	Default        ClientConfig
	Heavy          ClientConfig
	Light          ClientConfig
}

// FromConfig converts file configuration into a client set Config.
func FromConfig(cfg *config.Config) Config {
	conv := func(cc config.ClientConfig) ClientConfig {
		return ClientConfig{
			Budget:  Budget{MaxRequests: cc.MaxRequests, Window: cc.Window.D(), MaxWait: cc.MaxWait.D()},
			Timeout: cc.Timeout.D(),
		}
	}
	return Config{
		BaseURL:        cfg.API.BaseURL,
		RefreshPath:    cfg.API.RefreshPath,
		RefreshTimeout: cfg.API.RefreshTimeout.D(),
		Default:        conv(cfg.Clients.Default),
		Heavy:          conv(cfg.Clients.Heavy),
		Light:          conv(cfg.Clients.Light),
	}
}

// DefaultConfig is FromConfig(config.Default()) pointed at baseURL.
func DefaultConfig(baseURL string) Config {
	c := FromConfig(config.Default())
	c.BaseURL = baseURL
	return c
}

// Option customizes New.
type Option func(*options)

type options struct {
	transport      http.RoundTripper
	onUnauthorized UnauthorizedHandler
	refresh        RefreshFunc
}

// WithTransport replaces the base transport shared by all clients.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithUnauthorizedHandler sets the side effect run after a failed refresh.
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(o *options) { o.onUnauthorized = h }
}

// WithRefreshFunc replaces the HTTP refresh call.
func WithRefreshFunc(fn RefreshFunc) Option {
	return func(o *options) { o.refresh = fn }
}

// ClientSet holds the default, heavy and light clients. They share the
// credential store and refresh coordinator but not their budgets.
type ClientSet struct {
	Default *Client
	Heavy   *Client
	Light   *Client

	coordinator *Coordinator
	refresher   *Refresher
	transport   http.RoundTripper

	mu     sync.Mutex
	unsubs []func()
}

// New builds the client set.
func New(cfg Config, store *credential.Store, opts ...Option) (*ClientSet, error) {
	if store == nil {
		return nil, fmt.Errorf("httpclient: credential store is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("httpclient: invalid base URL %q", cfg.BaseURL)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.transport == nil {
		o.transport = NewBaseTransport()
	}

	refreshPath := cfg.RefreshPath
	if refreshPath == "" {
		refreshPath = config.DefaultRefreshPath
	}
	refreshTimeout := cfg.RefreshTimeout
	if refreshTimeout <= 0 {
		refreshTimeout = constants.RefreshTimeout
	}
	set := &ClientSet{transport: o.transport}
	set.refresher = NewRefresher(
		&http.Client{Transport: o.transport, Timeout: refreshTimeout},
		base.JoinPath(refreshPath).String(),
		store,
	)
	refresh := o.refresh
	if refresh == nil {
		refresh = set.refresher.Refresh
	}
	set.coordinator = NewCoordinator(store, refresh, o.onUnauthorized, refreshTimeout)
	interceptor := NewInterceptor(store.TokenSource())

	build := func(name string, cc ClientConfig) *Client {
		limiter := newLimitedTransport(name, cc.Budget, o.transport)
		return &Client{
			name:    name,
			baseURL: base,
			limiter: limiter,
			http: &http.Client{
				Timeout: cc.Timeout,
				Transport: &authTransport{
					client:      name,
					store:       store,
					interceptor: interceptor,
					coordinator: set.coordinator,
					next:        limiter,
				},
			},
		}
	}
	set.Default = build(constants.ClientDefault, cfg.Default)
	set.Heavy = build(constants.ClientHeavy, cfg.Heavy)
	set.Light = build(constants.ClientLight, cfg.Light)
	return set, nil
}

// Coordinator exposes the shared refresh coordinator.
func (s *ClientSet) Coordinator() *Coordinator { return s.coordinator }

// Client returns a client by name, or nil.
func (s *ClientSet) Client(name string) *Client {
	switch name {
	case constants.ClientDefault:
		return s.Default
	case constants.ClientHeavy:
		return s.Heavy
	case constants.ClientLight:
		return s.Light
	}
	return nil
}

// ApplyBudgets updates budgets in place. Timeouts are fixed at construction.
func (s *ClientSet) ApplyBudgets(cfg Config) {
	for _, pair := range []struct {
		c  *Client
		cc ClientConfig
	}{{s.Default, cfg.Default}, {s.Heavy, cfg.Heavy}, {s.Light, cfg.Light}} {
		if pair.cc.Budget.MaxRequests <= 0 {
			continue
		}
		if pair.c.Budget() != pair.cc.Budget {
			log.WithFields(log.Fields{
				"client": pair.c.name,
				"old":    pair.c.Budget().String(),
				"new":    pair.cc.Budget.String(),
			}).Info("client budget updated")
			pair.c.limiter.SetBudget(pair.cc.Budget)
		}
	}
}

// WatchConfig applies budgets from config.updated events. Call the returned
// func to stop.
func (s *ClientSet) WatchConfig(sub events.Subscriber) func() {
	stop := sub.Subscribe(events.TopicConfigUpdated, func(_ context.Context, evt events.Event) {
		if cfg, ok := evt.Payload.(*config.Config); ok && cfg != nil {
			s.ApplyBudgets(FromConfig(cfg))
		}
	})
	s.mu.Lock()
	s.unsubs = append(s.unsubs, stop)
	s.mu.Unlock()
	return stop
}

// Close stops config watches and releases idle connections.
func (s *ClientSet) Close() {
	s.mu.Lock()
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()
	for _, stop := range unsubs {
		stop()
	}
	if ci, ok := s.transport.(interface{ CloseIdleConnections() }); ok {
		ci.CloseIdleConnections()
	}
}
