package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/gridwatch/goodsections/internal/api"
	"github.com/gridwatch/goodsections/internal/config"
	"github.com/gridwatch/goodsections/internal/handlers"
	"github.com/gridwatch/goodsections/internal/middleware"
	"github.com/gridwatch/goodsections/internal/ratelimit"
	"github.com/gridwatch/goodsections/internal/sections"
)

// Server represents the HTTP server.
type Server struct {
	httpServer       *http.Server
	logger           logrus.FieldLogger
	sectionsProvider sections.Provider
}

// New creates a new HTTP server with all routes and middleware.
func New(
	logger logrus.FieldLogger,
	cfg *config.Config,
	sectionsProvider sections.Provider,
	limiter ratelimit.Service,
) (*Server, error) {
	mux := http.NewServeMux()

	// Health endpoint (no middleware needed for simple health check)
	mux.HandleFunc("GET /health", handlers.Health())
	logger.WithField("route", "GET /health").Info("Registered route")

	// Metrics endpoint (Prometheus format)
	mux.Handle("GET /metrics", promhttp.Handler())
	logger.WithField("route", "GET /metrics").Info("Registered route")

	// Runtime configuration view
	mux.Handle("GET /api/v1/config", api.NewConfigHandler(cfg, logger))
	logger.WithField("route", "GET /api/v1/config").Info("Registered route")

	// Series listing
	mux.Handle("GET /api/v1/series", api.NewSeriesListHandler(sectionsProvider, logger))
	logger.WithField("route", "GET /api/v1/series").Info("Registered route")

	// Series-scoped section endpoints
	routes := map[string]http.Handler{
		"POST /api/v1/series/{series}/chunks":      api.NewAppendChunkHandler(sectionsProvider, logger),
		"GET /api/v1/series/{series}/sections":     api.NewSectionsHandler(sectionsProvider, logger),
		"GET /api/v1/series/{series}/sections.svg": api.NewSectionsSVGHandler(sectionsProvider, logger),
		"POST /api/v1/series/{series}/restore":     api.NewRestoreHandler(sectionsProvider, logger),
	}

	for pattern, handler := range routes {
		mux.Handle(pattern, handler)
		logger.WithField("route", pattern).Info("Registered route")
	}

	// Apply middleware chain: Logging -> Metrics -> RateLimit -> CORS -> Recovery
	handler := middleware.Logging(logger)(mux)
	handler = middleware.Metrics()(handler)

	if cfg.RateLimiting.Enabled {
		if limiter == nil {
			return nil, fmt.Errorf("rate limiting enabled but no limiter provided")
		}

		handler = middleware.RateLimit(logger, cfg.RateLimiting, limiter)(handler)
		logger.WithField("rules", len(cfg.RateLimiting.Rules)).Info("Rate limiting enabled")
	}

	handler = middleware.CORS()(handler)
	handler = middleware.Recovery(logger)(handler)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{
		httpServer:       httpServer,
		logger:           logger,
		sectionsProvider: sectionsProvider,
	}, nil
}

// Start starts the HTTP server (blocking call).
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting HTTP server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	return s.httpServer.Shutdown(ctx)
}
