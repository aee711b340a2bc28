package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/api"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/config"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/credential"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/events"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/httpclient"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/logging"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/monitoring/tracing"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/session"

	log "github.com/sirupsen/logrus"
)

// app is the per-invocation wiring shared by all commands.
type app struct {
	cfg    *config.Config
	out    io.Writer
	errOut io.Writer
	format string

	store *credential.Store
	set   *httpclient.ClientSet
	svc   *api.Services

	cancel    context.CancelFunc
	closeOnce sync.Once
	closers   []func()
}

func newApp(parent context.Context, opts *globalOptions, out, errOut io.Writer) (a *app, err error) {
	manager, err := config.NewManager(config.ResolvePath(opts.configPath))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := manager.Get()
	if opts.baseURL != "" {
		cfg.API.BaseURL = strings.TrimSpace(opts.baseURL)
	}
	if opts.debug {
		cfg.Logging.Debug = true
	}
	if err := logging.Setup(cfg.Logging); err != nil {
		manager.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(parent)
	a = &app{
		cfg:    cfg,
		out:    out,
		errOut: errOut,
		format: strings.ToLower(opts.output),
		cancel: cancel,
	}
	a.closers = append(a.closers, manager.Close)
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	shutdown, err := tracing.Init(ctx, "yushan-cli")
	if err != nil {
		log.WithError(err).Warn("tracing disabled")
	} else {
		a.closers = append(a.closers, func() { _ = shutdown(context.Background()) })
	}

	hub := events.NewHub()
	manager.SetEventPublisher(hub)

	src, closeSrc, err := openSource(ctx, cfg.Credentials)
	if err != nil {
		return nil, err
	}
	if closeSrc != nil {
		a.closers = append(a.closers, closeSrc)
	}
	a.store = credential.NewStore(credential.WithSource(src), credential.WithPublisher(hub))
	if err := a.store.Restore(ctx); err != nil {
		log.WithError(err).Warn("could not restore saved session")
	}
	if cfg.Credentials.Watch {
		if err := a.store.Watch(ctx); err != nil {
			log.WithError(err).Warn("credential watch disabled")
		}
	}

	handler := session.NewHandler(cfg.Session.LoginPath,
		session.WithNotifier(session.NotifyFunc(func(_ context.Context, msg string) {
			fmt.Fprintln(errOut, msg)
		})),
		session.WithNavigator(session.EventNavigator{Publisher: hub}),
		session.WithPublisher(hub),
	)
	a.closers = append(a.closers, hub.Subscribe(events.TopicNavigate, func(_ context.Context, evt events.Event) {
		target, _ := evt.Payload.(string)
		log.WithField("target", target).Debug("login redirect requested")
		fmt.Fprintln(errOut, "Run `yushan login` to start a new session.")
	}))

	a.set, err = httpclient.New(httpclient.FromConfig(cfg), a.store, httpclient.WithUnauthorizedHandler(handler))
	if err != nil {
		return nil, err
	}
	a.set.WatchConfig(hub)
	a.closers = append(a.closers, a.set.Close)
	a.svc = api.New(a.set, a.store)

	log.WithFields(log.Fields{
		"base_url":    cfg.API.BaseURL,
		"credentials": a.store.SourceName(),
	}).Debug("client ready")
	return a, nil
}

// openSource picks the credential persistence backend.
func openSource(ctx context.Context, cfg config.CredentialsConfig) (credential.Source, func(), error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "file":
		return credential.NewFileSource(cfg.Path, cfg.Passphrase), nil, nil
	case "memory":
		return credential.NewMemorySource(), nil, nil
	case "redis":
		src, err := credential.DialRedisSource(ctx, credential.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Redis.Key,
		})
		if err != nil {
			return nil, nil, err
		}
		return src, func() { _ = src.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown credentials backend %q", cfg.Backend)
	}
}

// Close releases everything in reverse order of acquisition.
func (a *app) Close() {
	a.closeOnce.Do(func() {
		for i := len(a.closers) - 1; i >= 0; i-- {
			a.closers[i]()
		}
		a.cancel()
	})
}
