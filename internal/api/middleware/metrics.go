package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/tidewire/tidewire/internal/metrics"
)

// Metrics holds the OpenTelemetry instruments for the HTTP server.
type Metrics struct {
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
	size     metric.Int64Histogram
}

// NewMetrics creates the HTTP server instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	return NewMetricsWithMeter(otel.Meter(instrumentationName))
}

// NewMetricsWithMeter creates the HTTP server instruments on meter.
func NewMetricsWithMeter(meter metric.Meter) (*Metrics, error) {
	duration, err1 := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of HTTP server requests."), metric.WithUnit("s"))
	inFlight, err2 := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Requests currently being served."), metric.WithUnit("{request}"))
	size, err3 := meter.Int64Histogram("http.server.response.body.size",
		metric.WithDescription("Size of HTTP response bodies."), metric.WithUnit("By"))
	if err := errors.Join(err1, err2, err3); err != nil {
		return nil, err
	}
	return &Metrics{duration: duration, inFlight: inFlight, size: size}, nil
}

// Middleware records duration and body size per route pattern. Station
// endpoints are labelled by pattern, never by station code, to bound
// cardinality.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			start := time.Now()
			method := attribute.String("http.request.method", r.Method)
			m.inFlight.Add(ctx, 1, metric.WithAttributes(method))
			defer m.inFlight.Add(ctx, -1, metric.WithAttributes(method))

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			attrs := metric.WithAttributes(
				method,
				attribute.String("http.route", routePattern(r)),
				attribute.Int("http.response.status_code", rec.statusCode),
			)
			m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
			m.size.Record(ctx, rec.written, attrs)
		})
	}
}

// ProviderMetrics records upstream fetches. It satisfies the request
// recorder of the NDBC client.
type ProviderMetrics struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
}

// NewProviderMetrics creates the upstream fetch instruments on the global
// meter provider.
func NewProviderMetrics() (*ProviderMetrics, error) {
	return NewProviderMetricsWithMeter(otel.Meter(instrumentationName))
}

// NewProviderMetricsWithMeter creates the upstream fetch instruments on meter.
func NewProviderMetricsWithMeter(meter metric.Meter) (*ProviderMetrics, error) {
	duration, err1 := meter.Float64Histogram("upstream.fetch.duration",
		metric.WithDescription("Duration of NDBC fetches."), metric.WithUnit("s"))
	total, err2 := meter.Int64Counter("upstream.fetch.total",
		metric.WithDescription("NDBC fetches by operation and outcome."), metric.WithUnit("{request}"))
	if err := errors.Join(err1, err2); err != nil {
		return nil, err
	}
	return &ProviderMetrics{duration: duration, total: total}, nil
}

// RecordRequest records one upstream fetch.
func (m *ProviderMetrics) RecordRequest(provider, operation string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("upstream.name", provider),
		attribute.String("upstream.operation", operation),
		attribute.String("upstream.outcome", metrics.FetchOutcome(err)),
	)

	// The request context may already be done.
	ctx := context.Background()
	m.duration.Record(ctx, duration.Seconds(), attrs)
	m.total.Add(ctx, 1, attrs)
}
