// Package noaa provides an HTTP client for the NDBC public web site.
package noaa

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidewire/tidewire/internal/ndbc"
	"github.com/tidewire/tidewire/internal/provider/resilience"
)

const (
	// ProviderName identifies this provider.
	ProviderName = "ndbc"

	defaultUserAgent = "tidewire/1.0 (+https://github.com/tidewire/tidewire)"
)

// ClientConfig holds configuration for the NDBC client.
type ClientConfig struct {
	// BaseURL is the site root (defaults to ndbc.DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a resilient client without retries is created.
	HTTPClient HTTPDoer

	// Timeout for individual requests (default: 30s).
	Timeout time.Duration

	// UserAgent sent with every request.
	UserAgent string

	// Metrics receives per-request timings. Optional.
	Metrics RequestRecorder

	// Health receives success and failure events. Optional.
	Health HealthRecorder
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestRecorder records provider request metrics.
type RequestRecorder interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
}

// HealthRecorder tracks provider health.
type HealthRecorder interface {
	RecordSuccess(name string)
	RecordFailure(name string, err error)
}

// StatusError is returned for any non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// HTTPStatus returns the response status code.
func (e *StatusError) HTTPStatus() int {
	return e.StatusCode
}

// Client fetches NDBC listings, pages, observation files and XML feeds.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	userAgent  string
	metrics    RequestRecorder
	health     HealthRecorder
}

var _ ndbc.Source = (*Client)(nil)

// NewClient creates a new NDBC client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = ndbc.DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		rc := resilience.DefaultClientConfig(ProviderName)
		rc.Timeout = timeout
		httpClient = resilience.NewClient(rc)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		userAgent:  userAgent,
		metrics:    cfg.Metrics,
		health:     cfg.Health,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// StationHistoryPage fetches station_history.php for one station.
func (c *Client) StationHistoryPage(ctx context.Context, station string) (string, error) {
	return c.fetchText(ctx, "station_history", ndbc.StationHistoryURL(c.baseURL, station))
}

// HistoricalListing fetches the annual archive directory listing of dt.
func (c *Client) HistoricalListing(ctx context.Context, dt ndbc.DataType) (string, error) {
	return c.fetchText(ctx, "historical_listing", ndbc.HistoricalListingURL(c.baseURL, dt))
}

// MonthlyListing fetches one current-year monthly directory listing of dt.
func (c *Client) MonthlyListing(ctx context.Context, dt ndbc.DataType, month ndbc.MonthInfo) (string, error) {
	return c.fetchText(ctx, "monthly_listing", ndbc.MonthlyListingURL(c.baseURL, dt, month))
}

// RealtimeListing fetches the realtime2 directory listing.
func (c *Client) RealtimeListing(ctx context.Context) (string, error) {
	return c.fetchText(ctx, "realtime_listing", ndbc.RealtimeListingURL(c.baseURL))
}

// HistoricalFile fetches the text of a compiled annual archive.
func (c *Client) HistoricalFile(ctx context.Context, station string, dt ndbc.DataType, year int) (string, error) {
	url, err := ndbc.HistoricalFileURL(c.baseURL, station, dt, year)
	if err != nil {
		return "", err
	}
	return c.fetchText(ctx, "historical_file", url)
}

// MonthlyFile fetches the text of a current-year monthly archive.
func (c *Client) MonthlyFile(ctx context.Context, station string, dt ndbc.DataType, month ndbc.MonthInfo, year int) (string, error) {
	return c.fetchText(ctx, "monthly_file", ndbc.MonthlyFileURL(c.baseURL, station, dt, month, year))
}

// RealtimeFile fetches a realtime2 feed.
func (c *Client) RealtimeFile(ctx context.Context, station string, feed ndbc.Feed) (string, error) {
	return c.fetchText(ctx, "realtime_file", ndbc.RealtimeFileURL(c.baseURL, station, feed))
}

// ActiveStations fetches and decodes activestations.xml.
func (c *Client) ActiveStations(ctx context.Context) (*ndbc.Roster, error) {
	body, err := c.fetch(ctx, "active_stations", ndbc.ActiveStationsURL(c.baseURL))
	if err != nil {
		return nil, err
	}
	return ndbc.ParseRoster(bytes.NewReader(body))
}

// StationMetadata fetches and decodes stationmetadata.xml.
func (c *Client) StationMetadata(ctx context.Context) (*ndbc.MetadataCatalog, error) {
	body, err := c.fetch(ctx, "station_metadata", ndbc.StationMetadataURL(c.baseURL))
	if err != nil {
		return nil, err
	}
	return ndbc.ParseStationMetadata(bytes.NewReader(body))
}

func (c *Client) fetchText(ctx context.Context, operation, url string) (string, error) {
	body, err := c.fetch(ctx, operation, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) fetch(ctx context.Context, operation, url string) (body []byte, err error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordRequest(ProviderName, operation, time.Since(start), err)
		}
		if c.health != nil {
			if err != nil {
				c.health.RecordFailure(ProviderName, err)
			} else {
				c.health.RecordSuccess(ProviderName)
			}
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", operation, err)
	}
	return body, nil
}
