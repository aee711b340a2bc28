package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/config"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/logging"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/mockapi"
	tracing "github.com/maugus0/yushan-platform-frontend-sub001/internal/monitoring/tracing"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/version"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	addr := flag.String("addr", "", "Listen address (overrides mock_api.addr)")
	debug := flag.Bool("debug", false, "Enable debug mode")
	seed := flag.Bool("seed", true, "Create the demo accounts and novels")
	expireEvery := flag.Duration("expire-every", 0, "Invalidate all access tokens on this interval to exercise refresh")
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	if *debug {
		cfg.Logging.Debug = true
	}
	if *addr != "" {
		cfg.MockAPI.Addr = *addr
	}
	if err := logging.Setup(cfg.Logging); err != nil {
		log.WithError(err).Fatal("failed to configure logging")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	traceShutdown, err := tracing.Init(ctx, "yushan-mockapi")
	if err != nil {
		log.WithError(err).Warn("failed to initialize tracing")
	}
	if traceShutdown != nil {
		defer func() {
			if err := traceShutdown(context.Background()); err != nil {
				log.WithError(err).Warn("failed to shutdown tracing")
			}
		}()
	}

	server := mockapi.New(mockapi.OptionsFromConfig(cfg.MockAPI, cfg.Logging.Debug))
	if *seed {
		if err := server.SeedDemo(); err != nil {
			log.WithError(err).Fatal("failed to seed demo data")
		}
		log.WithFields(log.Fields{"email": mockapi.DemoEmail, "password": mockapi.DemoPassword}).Info("demo account ready")
	}
	if *expireEvery > 0 {
		go expireLoop(ctx, server, *expireEvery)
	}
	if cfg.Metrics.Enabled {
		go serveMetrics(ctx, cfg.Metrics.Addr)
	}

	log.Infof("Starting Yushan mock backend %s", version.String())
	if err := server.Run(ctx, cfg.MockAPI.Addr); err != nil {
		log.WithError(err).Fatal("mock backend failed")
	}
}

func expireLoop(ctx context.Context, server *mockapi.Server, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			server.ExpireAccessTokens()
			log.Debug("access tokens expired")
		case <-ctx.Done():
			return
		}
	}
}

// serveMetrics exposes /metrics on a separate listener.
func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	log.WithField("addr", addr).Info("metrics listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("metrics server")
	}
}
