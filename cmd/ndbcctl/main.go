// Command ndbcctl queries the NDBC catalog from the terminal and prints JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/tidewire/tidewire/internal/app"
	"github.com/tidewire/tidewire/internal/config"
	"github.com/tidewire/tidewire/internal/ndbc"
	"github.com/tidewire/tidewire/internal/worker"
)

// Version is set at compile time via ldflags.
var Version = "dev"

// Globals are shared by every command.
type Globals struct {
	BaseURL     string           `name:"base-url" env:"TIDEWIRE_NDBC_BASE_URL" default:"https://www.ndbc.noaa.gov" help:"NDBC site root."`
	Timeout     time.Duration    `env:"TIDEWIRE_FETCH_TIMEOUT" default:"30s" help:"Per-request timeout."`
	Concurrency int              `env:"TIDEWIRE_CONCURRENCY" default:"4" help:"Parallel fetches for bulk listings."`
	Verbose     bool             `short:"v" help:"Log at debug level to stderr."`
	Version     kong.VersionFlag `help:"Print version and exit."`
}

func (g *Globals) engine() *app.Engine {
	level := zerolog.WarnLevel
	if g.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	return app.NewEngine(&config.Config{
		NDBCBaseURL:  g.BaseURL,
		UserAgent:    "ndbcctl/" + Version,
		FetchTimeout: g.Timeout,
		Concurrency:  g.Concurrency,
	}, log, nil)
}

// CLI is the command tree.
type CLI struct {
	Globals

	Stations   StationsCmd   `cmd:"" help:"List active stations with their discovered files."`
	Station    StationCmd    `cmd:"" help:"Show one enriched station."`
	Metadata   MetadataCmd   `cmd:"" help:"Show a station's deployment history."`
	Files      FilesCmd      `cmd:"" help:"List archives linked from a station's history page."`
	Historical HistoricalCmd `cmd:"" help:"List every yearly archive of a data type."`
	Current    CurrentCmd    `cmd:"" help:"List the current year's monthly archives of a data type."`
	Listing    ListingCmd    `cmd:"" help:"List the realtime files of a feed."`
	Realtime   RealtimeCmd   `cmd:"" help:"Decode a station's realtime feed."`
	Archive    ArchiveCmd    `cmd:"" help:"Decode a yearly or monthly archive."`
	Sweep      SweepCmd      `cmd:"" help:"Run one catalog sweep and print its summary."`
}

// StationsCmd lists the enriched roster.
type StationsCmd struct{}

func (c *StationsCmd) Run(ctx context.Context, g *Globals, out io.Writer) error {
	stations, err := g.engine().Service.ActiveStations(ctx)
	return emit(out, stations, err)
}

// StationCmd shows one station.
type StationCmd struct {
	ID string `arg:"" help:"Station code, e.g. 41001."`
}

func (c *StationCmd) Run(ctx context.Context, g *Globals, out io.Writer) error {
	station, err := g.engine().Service.Station(ctx, c.ID)
	return emit(out, station, err)
}

// MetadataCmd shows station history.
type MetadataCmd struct {
	ID string `arg:"" help:"Station code."`
}

func (c *MetadataCmd) Run(ctx context.Context, g *Globals, out io.Writer) error {
	meta, err := g.engine().Service.StationMetadata(ctx, c.ID)
	return emit(out, meta, err)
}

// FilesCmd lists per-station archives.
type FilesCmd struct {
	ID   string `arg:"" help:"Station code."`
	Type string `short:"t" default:"stdmet" help:"Data type code."`
}

func (c *FilesCmd) Run(ctx context.Context, g *Globals, out io.Writer) error {
	files, err := g.engine().Service.StationFiles(ctx, c.ID, ndbc.ParseDataType(c.Type))
	return emit(out, files, err)
}

// HistoricalCmd lists yearly archives.
type HistoricalCmd struct {
	Type string `arg:"" help:"Data type code."`
}

func (c *HistoricalCmd) Run(ctx context.Context, g *Globals, out io.Writer) error {
	files, err := g.engine().Service.HistoricalFiles(ctx, ndbc.ParseDataType(c.Type))
	return emit(out, files, err)
}

// CurrentCmd lists monthly archives.
type CurrentCmd struct {
	Type string `arg:"" help:"Data type code."`
}

func (c *CurrentCmd) Run(ctx context.Context, g *Globals, out io.Writer) error {
	files, err := g.engine().Service.CurrentYearFiles(ctx, ndbc.ParseDataType(c.Type))
	return emit(out, files, err)
}

// ListingCmd lists realtime files.
type ListingCmd struct {
	Feed string `arg:"" enum:"stdmet,stdmetdrift,cwind,spec" help:"Feed: stdmet, stdmetdrift, cwind or spec."`
}

func (c *ListingCmd) Run(ctx context.Context, g *Globals, out io.Writer) error {
	feed, _ := ndbc.ParseFeed(c.Feed)
	files, err := g.engine().Service.RealtimeFiles(ctx, feed)
	return emit(out, files, err)
}

// RealtimeCmd decodes a realtime feed.
type RealtimeCmd struct {
	ID   string `arg:"" help:"Station code."`
	Feed string `arg:"" enum:"stdmet,stdmetdrift,cwind,spec" help:"Feed: stdmet, stdmetdrift, cwind or spec."`
}

func (c *RealtimeCmd) Run(ctx context.Context, g *Globals, out io.Writer) error {
	svc := g.engine().Service
	feed, _ := ndbc.ParseFeed(c.Feed)
	switch feed {
	case ndbc.FeedStdMet:
		records, err := svc.RealtimeStdMet(ctx, c.ID)
		return emit(out, records, err)
	case ndbc.FeedDrift:
		records, err := svc.RealtimeDrift(ctx, c.ID)
		return emit(out, records, err)
	case ndbc.FeedContinuousWinds:
		records, err := svc.RealtimeContinuousWinds(ctx, c.ID)
		return emit(out, records, err)
	default:
		records, err := svc.RealtimeSpectralSummary(ctx, c.ID)
		return emit(out, records, err)
	}
}

// ArchiveCmd decodes an archive.
type ArchiveCmd struct {
	ID     string `arg:"" help:"Station code."`
	Type   string `arg:"" enum:"stdmet,cwind" help:"stdmet or cwind."`
	Period string `arg:"" help:"Four-digit year or month abbreviation (Jan..Dec)."`
}

func (c *ArchiveCmd) Run(ctx context.Context, g *Globals, out io.Writer) error {
	period, err := ndbc.ParsePeriod(c.Period)
	if err != nil {
		return err
	}
	svc := g.engine().Service
	if ndbc.ParseDataType(c.Type) == ndbc.ContinuousWinds {
		records, err := svc.ArchivedContinuousWinds(ctx, c.ID, period)
		return emit(out, records, err)
	}
	records, err := svc.ArchivedStdMet(ctx, c.ID, period)
	return emit(out, records, err)
}

// SweepCmd runs one sweep.
type SweepCmd struct {
	Types    []string `short:"t" default:"stdmet,cwind" help:"Data types to list."`
	Stations []string `short:"s" help:"Stations whose realtime feeds are decoded."`
}

func (c *SweepCmd) Run(ctx context.Context, g *Globals, out io.Writer) error {
	cfg := worker.DefaultSweepConfig()
	cfg.DataTypes = nil
	for _, code := range c.Types {
		dt := ndbc.ParseDataType(code)
		if !dt.Supported() {
			return fmt.Errorf("%w: %q", ndbc.ErrUnsupportedDataType, code)
		}
		cfg.DataTypes = append(cfg.DataTypes, dt)
	}
	cfg.Stations = c.Stations
	cfg.Concurrency = g.Concurrency

	engine := g.engine()
	job := worker.NewSweepJob(worker.SweepJobConfig{Config: cfg, Service: engine.Service, Logger: zerolog.Nop()})
	result := job.Run(ctx)
	return emit(out, result, nil)
}

func emit(out io.Writer, v any, err error) error {
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// run parses args and executes the selected command.
func run(ctx context.Context, args []string, out io.Writer, options ...kong.Option) error {
	var cli CLI
	options = append([]kong.Option{
		kong.Name("ndbcctl"),
		kong.Description("Discover and decode NDBC buoy observations."),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.BindTo(out, (*io.Writer)(nil)),
	}, options...)

	parser, err := kong.New(&cli, options...)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run(&cli.Globals)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "ndbcctl:", err)
		os.Exit(1)
	}
}
