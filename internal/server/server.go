// Package server exposes people and family trees over HTTP.
//
// The API is read-mostly: a snapshot is loaded once at startup and swapped
// atomically by POST /api/refresh. Trees are rendered per request through
// the shared [pipeline.Runner], so concurrent requests never cancel each
// other and identical requests hit the layout cache.
//
// # Routes
//
//	GET  /healthz
//	GET  /api/people?q=&limit=
//	GET  /api/people/{id}
//	GET  /api/tree/{id}?direction=&depth=&both=&orientation=&width=&images=&format=
//	GET  /api/images/{id}
//	POST /api/refresh
//	GET  /metrics
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/lineage/pkg/pipeline"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
	requestTimeout    = 60 * time.Second
)

// Gallery lists every image of a person, main image first.
type Gallery interface {
	Gallery(ctx context.Context, personID string) ([]string, error)
}

// Config holds the collaborators of a [Server].
type Config struct {
	Runner   *pipeline.Runner
	Gallery  Gallery             // optional; /api/images answers 501 without it
	Defaults pipeline.Options    // seeds every tree request
	Gatherer prometheus.Gatherer // optional; /metrics is not mounted without it
	Logger   *log.Logger
}

// Server is the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	view     *pipeline.View
	gallery  Gallery
	defaults pipeline.Options
	logger   *log.Logger
	router   chi.Router
}

// New creates a server. Call [Server.Load] before serving so that the first
// requests see data.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{
		runner:   cfg.Runner,
		view:     pipeline.NewView(cfg.Runner),
		gallery:  cfg.Gallery,
		defaults: cfg.Defaults,
		logger:   logger,
	}
	s.router = s.routes(cfg.Gatherer)
	return s
}

func (s *Server) routes(gatherer prometheus.Gatherer) chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/people", s.handleListPeople)
		r.Get("/people/{id}", s.handleGetPerson)
		r.Get("/tree/{id}", s.handleTree)
		r.Get("/images/{id}", s.handleImages)
		r.Post("/refresh", s.handleRefresh)
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Load fetches the snapshot served by the API. On failure the previous
// snapshot stays in place.
func (s *Server) Load(ctx context.Context, refresh bool) (*pipeline.Data, error) {
	return s.view.Load(ctx, refresh)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.view.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
