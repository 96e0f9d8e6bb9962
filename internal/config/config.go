// Package config loads tidewire settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"github.com/tidewire/tidewire/internal/ndbc"
)

// Prefix is prepended to every variable, e.g. TIDEWIRE_PORT.
const Prefix = "TIDEWIRE"

// Config is shared by the API server, the worker and the CLI.
type Config struct {
	Env        string `default:"development"`
	Port       string `default:"8080"`
	LogLevel   string `split_words:"true" default:"info"`
	RequireTLS bool   `split_words:"true" default:"false"`

	// NDBC upstream.
	NDBCBaseURL  string        `envconfig:"NDBC_BASE_URL" default:"https://www.ndbc.noaa.gov"`
	UserAgent    string        `split_words:"true"`
	FetchTimeout time.Duration `split_words:"true" default:"30s"`
	FetchRetries int           `split_words:"true" default:"0"`
	Concurrency  int           `default:"4"`

	OTELEnabled     bool    `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint    string  `envconfig:"OTEL_ENDPOINT" default:"localhost:4317"`
	OTELSampleRatio float64 `envconfig:"OTEL_SAMPLE_RATIO" default:"1"`

	// Catalog sweep worker.
	SweepInterval    time.Duration `split_words:"true" default:"1h"`
	SweepConcurrency int           `split_words:"true" default:"3"`
	SweepTaskTimeout time.Duration `split_words:"true" default:"2m"`
	SweepDataTypes   []string      `split_words:"true" default:"stdmet,cwind"`
	SweepStations    []string      `split_words:"true"`

	PubSubProjectID    string `envconfig:"PUBSUB_PROJECT_ID"`
	PubSubSubscription string `envconfig:"PUBSUB_SUBSCRIPTION"`

	ShutdownTimeout time.Duration `split_words:"true" default:"30s"`
}

// Load reads an optional .env file and then the TIDEWIRE_* environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := new(Config)
	if err := envconfig.Process(Prefix, cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges envconfig cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port must not be empty"))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be positive, got %d", c.Concurrency))
	}
	if c.SweepConcurrency < 1 {
		errs = append(errs, fmt.Errorf("sweep concurrency must be positive, got %d", c.SweepConcurrency))
	}
	if c.FetchRetries < 0 {
		errs = append(errs, fmt.Errorf("fetch retries must not be negative, got %d", c.FetchRetries))
	}
	if c.OTELSampleRatio < 0 || c.OTELSampleRatio > 1 {
		errs = append(errs, fmt.Errorf("otel sample ratio must be within [0,1], got %g", c.OTELSampleRatio))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	for _, code := range c.SweepDataTypes {
		if !ndbc.ParseDataType(code).Supported() {
			errs = append(errs, fmt.Errorf("sweep data type %q: %w", code, ndbc.ErrUnsupportedDataType))
		}
	}
	return errors.Join(errs...)
}

// Level returns the configured log level, falling back to info.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// DataTypes returns the parsed sweep data types.
func (c *Config) DataTypes() []ndbc.DataType {
	out := make([]ndbc.DataType, 0, len(c.SweepDataTypes))
	for _, code := range c.SweepDataTypes {
		out = append(out, ndbc.ParseDataType(code))
	}
	return out
}

// PubSubEnabled reports whether the worker should subscribe for triggers.
func (c *Config) PubSubEnabled() bool {
	return c.PubSubProjectID != "" && c.PubSubSubscription != ""
}
