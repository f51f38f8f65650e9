// SPDX-License-Identifier: MIT

// Package api serves catalogs over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/m3ucat/internal/api/middleware"
	"github.com/ManuGH/m3ucat/internal/catalog"
	"github.com/ManuGH/m3ucat/internal/config"
	"github.com/ManuGH/m3ucat/internal/health"
	"github.com/ManuGH/m3ucat/internal/log"
	"github.com/ManuGH/m3ucat/internal/source"
)

const (
	defaultMaxUploadBytes = 32 << 20
	defaultMaxSources     = 32
	maxLoadBodyBytes      = 64 << 10
	shutdownTimeout       = 10 * time.Second
)

// Server is the HTTP API.
type Server struct {
	cfg    config.AppConfig
	store  *catalog.Store
	loader *source.Loader
	health *health.Manager
	logger zerolog.Logger
}

// New creates the API server.
func New(cfg config.AppConfig, store *catalog.Store, loader *source.Loader, hm *health.Manager) *Server {
	if cfg.API.MaxUploadBytes <= 0 {
		cfg.API.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.API.MaxSources <= 0 {
		cfg.API.MaxSources = defaultMaxSources
	}
	if hm == nil {
		hm = health.NewManager(cfg.Version)
		hm.RegisterChecker(health.NewCatalogChecker(store))
	}
	return &Server{
		cfg:    cfg,
		store:  store,
		loader: loader,
		health: hm,
		logger: log.WithComponent("api"),
	}
}

// Handler returns the routed handler with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	tracingService := ""
	if s.cfg.Tracing.Enabled {
		tracingService = s.cfg.LogService
	}
	r := middleware.NewRouter(middleware.StackConfig{
		EnableMetrics:     true,
		TracingService:    tracingService,
		EnableLogging:     true,
		RateLimitRequests: s.cfg.API.RateLimitRequests,
		RateLimitWindow:   s.cfg.API.RateLimitWindow,
	})

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/sources", func(r chi.Router) {
		r.Get("/", s.handleListSources)
		r.Route("/{source}", func(r chi.Router) {
			r.Get("/channels", s.handleListChannels)
			r.Get("/channels/{id}", s.handleGetChannel)
			r.Post("/channels/{id}/favorite", s.handleToggleFavorite)
			r.Get("/categories", s.handleCategories)
			r.Get("/playlist.m3u", s.handleExport)
			r.Group(func(r chi.Router) {
				r.Use(middleware.LoadRateLimit())
				r.Post("/load", s.handleLoad)
				r.Post("/upload", s.handleUpload)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeNotFound(w, "no route for "+r.URL.Path)
	})
	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str(log.FieldEvent, "api.listening").
			Str("addr", ln.Addr().String()).
			Msg("API server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info().Str(log.FieldEvent, "api.stopped").Msg("API server stopped")
	return nil
}
