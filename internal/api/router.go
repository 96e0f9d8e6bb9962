// Package api provides the HTTP API for tidewire.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tidewire/tidewire/internal/api/handler"
	"github.com/tidewire/tidewire/internal/api/middleware"
	"github.com/tidewire/tidewire/internal/provider/resilience"
)

// Service is everything the API needs from the discovery engine.
type Service interface {
	handler.StationService
	handler.FileService
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	Registry    *resilience.Registry
	Service     Service
	RequireTLS  bool

	// MetricsHandler serves /metrics. Defaults to the prometheus default gatherer.
	MetricsHandler http.Handler
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "tidewire-api"
	}
	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	// Order matters: request ID before tracing so spans carry it.
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry)
	stationHandler := handler.NewStationHandler(cfg.Service, cfg.Logger)
	filesHandler := handler.NewFilesHandler(cfg.Service, cfg.Logger)

	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)
	crawlRateLimit := middleware.RateLimitByIP(middleware.CrawlRateLimit)

	r.Get("/metrics", metricsHandler.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Get("/health", opsHandler.HealthCheck)
		r.Get("/ready", opsHandler.ReadinessCheck)

		r.Route("/v1", func(r chi.Router) {
			r.With(crawlRateLimit).Get("/station", stationHandler.ListStations)

			r.Route("/station/{stationId}", func(r chi.Router) {
				r.Use(standardRateLimit)
				r.Get("/", stationHandler.GetStation)
				r.Get("/metadata", stationHandler.GetStationMetadata)
				r.Get("/files/{type}", stationHandler.ListStationFiles)
				r.Get("/{type}/realtime", stationHandler.GetRealtime)
				r.Get("/{type}/{period}", stationHandler.GetArchive)
			})

			r.Route("/files/{type}", func(r chi.Router) {
				r.Use(crawlRateLimit)
				r.Get("/historical", filesHandler.ListHistorical)
				r.Get("/current", filesHandler.ListCurrentYear)
				r.Get("/realtime", filesHandler.ListRealtime)
			})
		})
	})

	return r
}
