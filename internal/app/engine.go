// Package app assembles the discovery engine shared by the binaries.
package app

import (
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/tidewire/tidewire/internal/config"
	"github.com/tidewire/tidewire/internal/ndbc"
	"github.com/tidewire/tidewire/internal/ndbc/noaa"
	"github.com/tidewire/tidewire/internal/provider/resilience"
)

// Engine is a ready-to-use discovery service and the health registry of its
// upstream.
type Engine struct {
	Service  *ndbc.Service
	Client   *noaa.Client
	Registry *resilience.Registry
}

// NewEngine wires the NDBC client behind a circuit breaker. recorder may be
// nil.
func NewEngine(cfg *config.Config, log zerolog.Logger, recorder noaa.RequestRecorder) *Engine {
	breaker := resilience.DefaultCircuitBreakerConfig(noaa.ProviderName)
	breaker.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn().
			Str("upstream", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("circuit breaker state changed")
	}

	rc := resilience.DefaultClientConfig(noaa.ProviderName)
	rc.Timeout = cfg.FetchTimeout
	rc.MaxRetries = uint64(cfg.FetchRetries) //nolint:gosec // validated non-negative
	rc.CircuitBreaker = &breaker
	httpClient := resilience.NewClient(rc)

	registry := resilience.NewRegistry()
	registry.Register(noaa.ProviderName, httpClient)

	client := noaa.NewClient(noaa.ClientConfig{
		BaseURL:    cfg.NDBCBaseURL,
		HTTPClient: httpClient,
		UserAgent:  cfg.UserAgent,
		Metrics:    recorder,
		Health:     registry,
	})

	service := ndbc.NewService(ndbc.ServiceConfig{
		Source:      client,
		Logger:      log.With().Str("component", "ndbc").Logger(),
		Concurrency: cfg.Concurrency,
	})

	return &Engine{Service: service, Client: client, Registry: registry}
}
