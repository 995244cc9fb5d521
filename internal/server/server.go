// Package server implements the tideman HTTP API.
//
// # Endpoints
//
//	POST /v1/tabulate   ballot document in, staged result JSON out
//	POST /v1/render     ballot document in, lock graph image out
//	GET  /healthz       liveness and build information
//	GET  /metrics       Prometheus metrics
//
// Ballot documents are JSON by default; TOML, YAML and HCL are accepted when
// named by the Content-Type header or the "input" query parameter. Errors
// are JSON objects {"code": ..., "message": ...}.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/matzehuels/tideman/pkg/cache"
	"github.com/matzehuels/tideman/pkg/pipeline"
)

// Defaults applied by [Config.setDefaults].
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 1 << 20
	DefaultTimeout      = 30 * time.Second

	// keyScope separates API cache entries from CLI entries in a shared
	// Redis.
	keyScope = "api:"
)

// Config configures a [Server].
type Config struct {
	// Addr is the listen address.
	Addr string

	// RateLimit is the sustained request rate in requests per second across
	// all clients; Burst is the bucket size. A RateLimit of zero disables
	// limiting.
	RateLimit float64
	Burst     int

	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64

	// Timeout bounds the handling of a single request.
	Timeout time.Duration

	// Metrics is served at /metrics. The caller installs it as the process
	// hooks with [Metrics.Register]; nil gives the server an empty registry.
	Metrics *Metrics
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RateLimit > 0 && c.Burst <= 0 {
		c.Burst = max(1, int(c.RateLimit))
	}
}

// Server serves the HTTP API over a pipeline runner.
type Server struct {
	cfg     Config
	runner  *pipeline.Runner
	logger  *log.Logger
	metrics *Metrics
	limiter *rate.Limiter
	router  chi.Router
}

// New creates a server. The runner's keyer is scoped so API entries do not
// collide with CLI entries in a shared cache. A nil logger discards output.
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	scoped := *runner
	scoped.Keyer = cache.NewScopedKeyer(runner.Keyer, keyScope)

	s := &Server{
		cfg:     cfg,
		runner:  &scoped,
		logger:  logger,
		metrics: cfg.Metrics,
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(s.trace)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Use(middleware.Timeout(s.cfg.Timeout))
		r.Use(s.limitBody)
		r.Post("/tabulate", s.handleTabulate)
		r.Post("/render", s.handleRender)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "NOT_FOUND", Message: "no such endpoint"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Code: "METHOD_NOT_ALLOWED", Message: r.Method + " not allowed"})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
