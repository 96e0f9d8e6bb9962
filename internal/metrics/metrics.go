// Package metrics holds the Prometheus collectors of the catalog sweep worker.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tidewire"

// Metrics holds the Prometheus counters, histograms and gauges for sweeps
// and upstream fetches.
type Metrics struct {
	SweepRuns     *prometheus.CounterVec // labels: outcome={success,partial,failed}
	SweepDuration prometheus.Histogram
	SweepRunning  prometheus.Gauge

	FilesDiscovered *prometheus.CounterVec // labels: data_type, source={historical,current,realtime}
	RecordsDecoded  *prometheus.CounterVec // labels: data_type
	TaskFailures    *prometheus.CounterVec // labels: task

	// Upstream fetch metrics.
	FetchRequests *prometheus.CounterVec   // labels: operation, outcome={success,not_found,error}
	FetchDuration *prometheus.HistogramVec // labels: operation
}

func newCollectors(help bool) *Metrics {
	h := func(s string) string {
		if help {
			return s
		}
		return ""
	}
	return &Metrics{
		SweepRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_runs_total",
			Help:      h("Catalog sweeps by outcome."),
		}, []string{"outcome"}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      h("Duration of a complete catalog sweep."),
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		SweepRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sweep_running",
			Help:      h("1 while a sweep is in progress."),
		}),
		FilesDiscovered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_discovered_total",
			Help:      h("Archive and realtime files found by discovery."),
		}, []string{"data_type", "source"}),
		RecordsDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_decoded_total",
			Help:      h("Observation records decoded from realtime feeds."),
		}, []string{"data_type"}),
		TaskFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_task_failures_total",
			Help:      h("Sweep tasks that returned an error."),
		}, []string{"task"}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ndbc_fetch_requests_total",
			Help:      h("Requests to the NDBC site by operation and outcome."),
		}, []string{"operation", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ndbc_fetch_duration_seconds",
			Help:      h("NDBC request duration in seconds."),
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.SweepRuns,
		m.SweepDuration,
		m.SweepRunning,
		m.FilesDiscovered,
		m.RecordsDecoded,
		m.TaskFailures,
		m.FetchRequests,
		m.FetchDuration,
	}
}

// NewMetrics creates and registers all worker metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newCollectors(true)
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build many.
func NewMetricsForTesting() *Metrics {
	return newCollectors(false)
}

// Register adds all collectors to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// statusCoder is satisfied by upstream status errors.
type statusCoder interface {
	error
	HTTPStatus() int
}

// FetchOutcome classifies an upstream fetch result as success, not_found or
// error.
func FetchOutcome(err error) string {
	if err == nil {
		return "success"
	}
	var sc statusCoder
	if errors.As(err, &sc) && sc.HTTPStatus() == http.StatusNotFound {
		return "not_found"
	}
	return "error"
}

// RecordRequest records one upstream fetch. It satisfies the NDBC client's
// request recorder; provider is implied by the namespace.
func (m *Metrics) RecordRequest(_, operation string, duration time.Duration, err error) {
	m.FetchRequests.WithLabelValues(operation, FetchOutcome(err)).Inc()
	m.FetchDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
