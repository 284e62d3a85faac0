// Package api serves the geomkit pipeline over HTTP.
//
// Routes:
//
//	POST /v1/layout/{chart}   dataset → scene JSON
//	POST /v1/render/{chart}   dataset → artifact(s)
//	POST /v1/scales           dataset → scale descriptors
//	GET  /healthz             build information
//
// Every handler shares one [pipeline.Runner], so results are cached across
// requests by the configured cache backend.
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/geomkit/pkg/config"
	"github.com/matzehuels/geomkit/pkg/pipeline"
)

const shutdownTimeout = 5 * time.Second

// Server holds the shared runner and request limits.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	chart   config.Chart
	timeout time.Duration
	maxBody int64
}

// New creates a server. cfg supplies the chart defaults requests start
// from and the server limits; nil means config.Default().
func New(runner *pipeline.Runner, cfg *config.Config, logger *log.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	timeout, _ := cfg.Server.TimeoutDuration()
	return &Server{
		runner:  runner,
		logger:  logger,
		chart:   cfg.Chart,
		timeout: timeout,
		maxBody: cfg.Server.MaxBodyBytes,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout/{chart}", s.handleLayout)
		r.Post("/render/{chart}", s.handleRender)
		r.Post("/scales", s.handleScales)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
