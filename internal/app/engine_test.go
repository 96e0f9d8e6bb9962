package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewire/tidewire/internal/app"
	"github.com/tidewire/tidewire/internal/config"
	"github.com/tidewire/tidewire/internal/metrics"
)

const cwindFeed = "#YY  MM DD hh mm WDIR WSPD GDR GST GTIME\n" +
	"#yr  mo dy hr mn degT  m/s degT m/s hhmm\n" +
	"2024 05 20 12 50  210  5.0 220 7.0 1246\n" +
	"2024 05 20 12 40  200  4.6 999 99.0 9999\n"

func TestNewEngine_FetchesThroughRegistry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/realtime2/41001.cwind", r.URL.Path)
		_, _ = w.Write([]byte(cwindFeed))
	}))
	defer server.Close()

	cfg := &config.Config{
		NDBCBaseURL:  server.URL,
		FetchTimeout: 5 * time.Second,
		Concurrency:  2,
	}
	m := metrics.NewMetricsForTesting()
	engine := app.NewEngine(cfg, zerolog.Nop(), m)

	records, err := engine.Service.RealtimeContinuousWinds(context.Background(), "41001")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	health := engine.Registry.Health("ndbc")
	require.NotNil(t, health)
	assert.True(t, health.IsHealthy())
	assert.NotNil(t, health.LastSuccessAt)

	assert.InDelta(t, 1, testutil.ToFloat64(m.FetchRequests.WithLabelValues("realtime_file", "success")), 0)
}

func TestNewEngine_RecordsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	}))
	defer server.Close()

	cfg := &config.Config{NDBCBaseURL: server.URL, FetchTimeout: 5 * time.Second, Concurrency: 1}
	engine := app.NewEngine(cfg, zerolog.Nop(), nil)

	_, err := engine.Service.RealtimeSpectralSummary(context.Background(), "41001")
	require.Error(t, err)

	health := engine.Registry.Health("ndbc")
	require.NotNil(t, health)
	assert.True(t, health.IsHealthy(), "a missing feed must not trip the breaker")
	assert.Contains(t, health.LastError, "404")
}
