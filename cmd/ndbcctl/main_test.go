package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewire/tidewire/internal/ndbc"
)

func newNDBC(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/data/realtime2/41001.cwind", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("#YY  MM DD hh mm WDIR WSPD GDR GST GTIME\n" +
			"#yr  mo dy hr mn degT  m/s degT m/s hhmm\n" +
			"2024 05 20 12 50  210  5.0 220 7.0 1246\n"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestRun_Realtime(t *testing.T) {
	server := newNDBC(t)
	var out bytes.Buffer

	err := run(context.Background(), []string{"--base-url", server.URL, "realtime", "41001", "cwind"}, &out)
	require.NoError(t, err)

	var records []ndbc.ContinuousWindsObservation
	require.NoError(t, json.Unmarshal(out.Bytes(), &records))
	require.Len(t, records, 1)
	require.NotNil(t, records[0].WDIR)
	assert.Equal(t, 210, *records[0].WDIR)
}

func TestRun_UpstreamMissing(t *testing.T) {
	server := newNDBC(t)

	err := run(context.Background(), []string{"--base-url", server.URL, "realtime", "41001", "spec"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestRun_InvalidPeriod(t *testing.T) {
	err := run(context.Background(), []string{"archive", "41001", "stdmet", "someday"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ndbc.ErrInvalidPeriod)
}

func TestRun_RejectsUnknownFeed(t *testing.T) {
	err := run(context.Background(), []string{"realtime", "41001", "adcp"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")
}

func TestRun_SweepRejectsUnknownType(t *testing.T) {
	err := run(context.Background(), []string{"sweep", "--types", "tides"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ndbc.ErrUnsupportedDataType)
}
