// Package server provides the HTTP API for running sweep analyses.
//
// The API accepts allocation problems as JSON, runs the sweep pipeline,
// archives completed runs in a store, and serves archived runs back by ID.
//
// Routes:
//
//	GET    /healthz          - liveness probe
//	POST   /v1/sweep         - analyze a problem and archive the run
//	GET    /v1/sweeps        - list archived runs, newest first
//	GET    /v1/sweeps/{id}   - fetch an archived run
//	DELETE /v1/sweeps/{id}   - remove an archived run
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Merci306/minimalloc-merci/pkg/pipeline"
	"github.com/Merci306/minimalloc-merci/pkg/store"
)

// Server timeout constants.
const (
	readTimeout     = 30 * time.Second
	writeTimeout    = 60 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second

	// maxBodyBytes caps request bodies at 32 MiB.
	maxBodyBytes = 32 << 20

	// defaultListLimit is the run listing page size.
	defaultListLimit = 50
)

// Config configures the API server.
type Config struct {
	// Addr is the listen address (e.g., ":8080").
	Addr string

	// Runner executes the analysis pipeline. Required.
	Runner *pipeline.Runner

	// Store archives completed runs. Required.
	Store store.Store

	// Logger receives request and lifecycle logs. Defaults to log.Default().
	Logger *log.Logger
}

// Server is the minimalloc HTTP API server.
type Server struct {
	cfg    Config
	logger *log.Logger
}

// New creates a server from the given config.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Server{cfg: cfg, logger: cfg.Logger}
}

// Handler builds the chi router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/sweep", s.handleSweep)
		r.Get("/sweeps", s.handleListRuns)
		r.Get("/sweeps/{id}", s.handleGetRun)
		r.Delete("/sweeps/{id}", s.handleDeleteRun)
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// logRequests logs each request on completion.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
