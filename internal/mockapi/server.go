// Package mockapi is an in-memory stand-in for the Yushan backend. It speaks
// the same envelope and refresh contract as the real service and exposes
// hooks for expiring tokens, which the integration tests and the local CLI
// workflow rely on.
package mockapi

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/config"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/constants"
	mw "github.com/maugus0/yushan-platform-frontend-sub001/internal/middleware"

	log "github.com/sirupsen/logrus"
)

// Options configures the mock backend.
type Options struct {
	Secret         string
	AccessTokenTTL time.Duration
	// RateLimitRPS enables per-caller 429s when positive.
	RateLimitRPS   float64
	RateLimitBurst int
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	Debug      bool
	RequestLog bool
}

// OptionsFromConfig converts file configuration.
func OptionsFromConfig(cfg config.MockAPIConfig, debug bool) Options {
	return Options{
		Secret:         cfg.Secret,
		AccessTokenTTL: cfg.AccessTokenTTL.D(),
		RateLimitRPS:   float64(cfg.RateLimitRPS),
		RateLimitBurst: cfg.RateLimitBurst,
		Debug:          debug,
		RequestLog:     true,
	}
}

// Server is the mock backend.
type Server struct {
	opts   Options
	engine *gin.Engine
	data   *db
	tokens *tokenIssuer

	refreshCalls atomic.Int64
	refreshDelay atomic.Int64
}

// New builds a server with empty state.
func New(opts Options) *Server {
	if opts.Secret == "" {
		opts.Secret = "yushan-dev-secret"
	}
	if opts.AccessTokenTTL <= 0 {
		opts.AccessTokenTTL = 15 * time.Minute
	}
	s := &Server{
		opts:   opts,
		data:   newDB(opts.BcryptCost),
		tokens: newTokenIssuer(opts.Secret, opts.AccessTokenTTL),
	}
	s.engine = s.buildEngine()
	return s
}

func (s *Server) buildEngine() *gin.Engine {
	if !s.opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	_ = engine.SetTrustedProxies(nil)
	engine.Use(mw.Recovery(), mw.RequestID(), mw.Metrics(), mw.CORS())
	if s.opts.RequestLog {
		engine.Use(mw.RequestLogger())
	}
	engine.GET("/metrics", mw.MetricsHandler)
	engine.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	root := engine.Group("/api")
	root.Use(mw.RateLimiter(s.opts.RateLimitRPS, s.opts.RateLimitBurst))
	s.registerRoutes(root)
	return engine
}

func (s *Server) registerRoutes(r *gin.RouterGroup) {
	required := mw.BearerAuth(s.tokens.validate)
	optional := mw.OptionalBearerAuth(s.tokens.validate)

	auth := r.Group("/auth")
	auth.POST("/login", s.handleLogin)
	auth.POST("/register", s.handleRegister)
	auth.POST("/refresh", s.handleRefresh)
	auth.POST("/logout", s.handleLogout)

	users := r.Group("/users")
	users.GET("/me", required, s.handleMe)
	users.PUT("/me", required, s.handleUpdateMe)
	users.GET("/:uuid", optional, s.handleGetUser)

	novels := r.Group("/novels")
	novels.GET("", optional, s.handleListNovels)
	novels.POST("", required, s.handleCreateNovel)
	novels.GET("/:id", optional, s.handleGetNovel)
	novels.PUT("/:id", required, s.handleUpdateNovel)
	novels.DELETE("/:id", required, s.handleDeleteNovel)
	novels.GET("/:id/chapters", optional, s.handleListChapters)
	novels.GET("/:id/reviews", optional, s.handleListReviews)

	chapters := r.Group("/chapters")
	chapters.POST("", required, s.handleCreateChapter)
	chapters.GET("/:uuid", optional, s.handleGetChapter)
	chapters.PUT("/:uuid", required, s.handleUpdateChapter)
	chapters.DELETE("/:uuid", required, s.handleDeleteChapter)

	reviews := r.Group("/reviews")
	reviews.POST("", required, s.handleCreateReview)
	reviews.DELETE("/:id", required, s.handleDeleteReview)
	reviews.POST("/:id/like", required, s.handleLikeReview)

	search := r.Group("/search")
	search.GET("", optional, s.handleSearch)
	search.GET("/suggestions", optional, s.handleSuggestions)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// RefreshCalls reports how many refresh requests were received.
func (s *Server) RefreshCalls() int64 { return s.refreshCalls.Load() }

// SetRefreshDelay makes refresh responses slower, widening the window in
// which concurrent requests pile up behind one refresh.
func (s *Server) SetRefreshDelay(d time.Duration) { s.refreshDelay.Store(int64(d)) }

// ExpireAccessTokens makes every issued access token fail with 401 while
// refresh tokens stay valid.
func (s *Server) ExpireAccessTokens() { s.tokens.expireAccess() }

// RevokeSessions invalidates all access and refresh tokens.
func (s *Server) RevokeSessions() { s.tokens.revokeAll() }

// Run serves on addr until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("mock backend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("mock backend stopped")
	return nil
}
