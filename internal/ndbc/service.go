package ndbc

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Source fetches raw documents from the agency. Implementations return the
// body unchanged; all interpretation happens in this package.
type Source interface {
	// Name returns the source name for logging.
	Name() string

	StationHistoryPage(ctx context.Context, station string) (string, error)
	HistoricalListing(ctx context.Context, dt DataType) (string, error)
	MonthlyListing(ctx context.Context, dt DataType, month MonthInfo) (string, error)
	RealtimeListing(ctx context.Context) (string, error)

	HistoricalFile(ctx context.Context, station string, dt DataType, year int) (string, error)
	MonthlyFile(ctx context.Context, station string, dt DataType, month MonthInfo, year int) (string, error)
	RealtimeFile(ctx context.Context, station string, feed Feed) (string, error)

	ActiveStations(ctx context.Context) (*Roster, error)
	StationMetadata(ctx context.Context) (*MetadataCatalog, error)
}

// ServiceConfig holds configuration for the discovery service.
type ServiceConfig struct {
	// Source fetches listings, pages and files.
	Source Source

	// Logger for service operations.
	Logger zerolog.Logger

	// Concurrency bounds fan-out across months (default: 4).
	Concurrency int

	// Clock decides the current year for monthly archives (default: real clock).
	Clock clockwork.Clock

	// Decoder overrides the default sentinel classifier.
	Decoder *Decoder
}

// Service discovers archive files, decodes observation bodies and enriches
// the station roster. It holds no state between calls.
type Service struct {
	source      Source
	logger      zerolog.Logger
	concurrency int
	clock       clockwork.Clock
	decoder     Decoder
}

// NewService creates a new discovery service.
func NewService(cfg ServiceConfig) *Service {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	decoder := defaultDecoder
	if cfg.Decoder != nil {
		decoder = *cfg.Decoder
	}
	return &Service{
		source:      cfg.Source,
		logger:      cfg.Logger,
		concurrency: concurrency,
		clock:       clock,
		decoder:     decoder,
	}
}

// CurrentYear returns the year published as monthly archives.
func (s *Service) CurrentYear() int {
	return s.clock.Now().UTC().Year()
}

func requireSupported(dt DataType) error {
	if !dt.Supported() {
		return fmt.Errorf("%w: %q", ErrUnsupportedDataType, dt)
	}
	return nil
}

// StationFiles lists the yearly and current-year monthly archives linked
// from one station's history page.
func (s *Service) StationFiles(ctx context.Context, station string, dt DataType) ([]HistoricFile, error) {
	if err := requireSupported(dt); err != nil {
		return nil, err
	}
	page, err := s.source.StationHistoryPage(ctx, station)
	if err != nil {
		return nil, fmt.Errorf("station %s history: %w", CanonicalStation(station), err)
	}
	files := stationPageFiles(page, dt)
	if len(files) == 0 {
		s.logger.Debug().Str("station", CanonicalStation(station)).Str("data_type", dt.Code()).Msg("no archives linked from station page")
	}
	return files, nil
}

func stationPageFiles(page string, dt DataType) []HistoricFile {
	return append(ExtractStationDownloads(page, dt), ExtractStationMonthlyDownloads(page, dt)...)
}

// HistoricalFiles lists every compiled annual archive of dt.
func (s *Service) HistoricalFiles(ctx context.Context, dt DataType) ([]HistoricFile, error) {
	if err := requireSupported(dt); err != nil {
		return nil, err
	}
	body, err := s.source.HistoricalListing(ctx, dt)
	if err != nil {
		return nil, fmt.Errorf("historical listing %s: %w", dt, err)
	}
	files := ExtractHistoricalListing(body, dt)
	s.logger.Debug().Str("data_type", dt.Code()).Int("files", len(files)).Msg("historical listing parsed")
	return files, nil
}

// CurrentYearFiles crawls the twelve monthly listings of dt. Results keep
// month order; any failed month fails the call.
func (s *Service) CurrentYearFiles(ctx context.Context, dt DataType) ([]HistoricFile, error) {
	if err := requireSupported(dt); err != nil {
		return nil, err
	}

	perMonth := make([][]HistoricFile, len(Months))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, mi := range Months {
		g.Go(func() error {
			body, err := s.source.MonthlyListing(gctx, dt, mi)
			if err != nil {
				return fmt.Errorf("monthly listing %s/%s: %w", dt, mi.Abbrev, err)
			}
			perMonth[i] = ExtractMonthlyListing(body, dt, mi)
			if len(perMonth[i]) == 0 {
				s.logger.Debug().Str("data_type", dt.Code()).Str("month", mi.Abbrev).Msg("no monthly archives listed")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	files := []HistoricFile{}
	for _, month := range perMonth {
		files = append(files, month...)
	}
	return files, nil
}

// RealtimeFiles lists the realtime2 files of feed.
func (s *Service) RealtimeFiles(ctx context.Context, feed Feed) ([]RealtimeFile, error) {
	body, err := s.source.RealtimeListing(ctx)
	if err != nil {
		return nil, fmt.Errorf("realtime listing: %w", err)
	}
	return ExtractRealtimeListing(body, feed)
}

// realtimeSlots pairs each realtime slot with the feed that fills it.
var realtimeSlots = []struct {
	slot RealtimeSlot
	feed Feed
}{
	{SlotStdMetRealtime, FeedStdMet},
	{SlotCwindRealtime, FeedContinuousWinds},
	{SlotSpecRealtime, FeedSpectralSummary},
}

func enrichFromRealtimeListing(stations []Station, body string) error {
	for _, rs := range realtimeSlots {
		files, err := ExtractRealtimeListing(body, rs.feed)
		if err != nil {
			return err
		}
		EnrichRealtime(stations, rs.slot, files)
	}
	return nil
}

// ActiveStations returns the roster enriched with the bulk historical
// listings of stdmet and cwind and the realtime feed index.
func (s *Service) ActiveStations(ctx context.Context) ([]Station, error) {
	var (
		roster        *Roster
		stdmetHistory []HistoricFile
		cwindHistory  []HistoricFile
		realtimeIndex string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	g.Go(func() (err error) {
		roster, err = s.source.ActiveStations(gctx)
		if err != nil {
			return fmt.Errorf("active stations: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		stdmetHistory, err = s.HistoricalFiles(gctx, StandardMeteorological)
		return err
	})
	g.Go(func() (err error) {
		cwindHistory, err = s.HistoricalFiles(gctx, ContinuousWinds)
		return err
	})
	g.Go(func() (err error) {
		realtimeIndex, err = s.source.RealtimeListing(gctx)
		if err != nil {
			return fmt.Errorf("realtime listing: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stations := roster.Stations
	if stations == nil {
		stations = []Station{}
	}
	if len(stations) == 0 {
		s.logger.Debug().Msg("roster lists no active stations")
	}

	stdmetMatched := EnrichHistory(stations, SlotStdMetHistory, stdmetHistory)
	cwindMatched := EnrichHistory(stations, SlotCwindHistory, cwindHistory)
	if err := enrichFromRealtimeListing(stations, realtimeIndex); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("stations", len(stations)).
		Int("stdmet_history", stdmetMatched).
		Int("cwind_history", cwindMatched).
		Msg("active stations enriched")

	return stations, nil
}

// Station returns one roster entry enriched from its history page and the
// realtime feed index.
func (s *Service) Station(ctx context.Context, id string) (*Station, error) {
	id = CanonicalStation(id)

	var (
		roster        *Roster
		page          string
		realtimeIndex string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	g.Go(func() (err error) {
		roster, err = s.source.ActiveStations(gctx)
		if err != nil {
			return fmt.Errorf("active stations: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		page, err = s.source.StationHistoryPage(gctx, id)
		if err != nil {
			return fmt.Errorf("station %s history: %w", id, err)
		}
		return nil
	})
	g.Go(func() (err error) {
		realtimeIndex, err = s.source.RealtimeListing(gctx)
		if err != nil {
			return fmt.Errorf("realtime listing: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var station *Station
	for i := range roster.Stations {
		if roster.Stations[i].ID == id {
			station = &roster.Stations[i]
			break
		}
	}
	if station == nil {
		return nil, fmt.Errorf("%w: %s", ErrStationNotFound, id)
	}

	one := []Station{*station}
	if EnrichHistory(one, SlotStdMetHistory, stationPageFiles(page, StandardMeteorological)) == 0 {
		s.logger.Debug().Str("station", id).Msg("no stdmet history found")
	}
	if EnrichHistory(one, SlotCwindHistory, stationPageFiles(page, ContinuousWinds)) == 0 {
		s.logger.Debug().Str("station", id).Msg("no cwind history found")
	}
	if err := enrichFromRealtimeListing(one, realtimeIndex); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// StationMetadata returns the deployment history of one station.
func (s *Service) StationMetadata(ctx context.Context, id string) (*StationMetadata, error) {
	catalog, err := s.source.StationMetadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("station metadata: %w", err)
	}
	meta, ok := catalog.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStationNotFound, CanonicalStation(id))
	}
	return &meta, nil
}

// ArchivedStdMet decodes a yearly or current-year monthly stdmet archive.
func (s *Service) ArchivedStdMet(ctx context.Context, station string, period Period) ([]StdMetObservation, error) {
	body, err := s.archiveBody(ctx, station, StandardMeteorological, period)
	if err != nil {
		return nil, err
	}
	records, err := s.decoder.StdMet(station, body, LayoutHistorical)
	return records, s.decoded(station, StandardMeteorological, period.String(), len(records), err)
}

// ArchivedContinuousWinds decodes a yearly or current-year monthly cwind archive.
func (s *Service) ArchivedContinuousWinds(ctx context.Context, station string, period Period) ([]ContinuousWindsObservation, error) {
	body, err := s.archiveBody(ctx, station, ContinuousWinds, period)
	if err != nil {
		return nil, err
	}
	records, err := s.decoder.ContinuousWinds(station, body)
	return records, s.decoded(station, ContinuousWinds, period.String(), len(records), err)
}

func (s *Service) archiveBody(ctx context.Context, station string, dt DataType, period Period) (string, error) {
	switch period.Kind() {
	case PeriodYear:
		year, _ := period.Year()
		body, err := s.source.HistoricalFile(ctx, station, dt, year)
		if err != nil {
			return "", fmt.Errorf("%s archive %s/%d: %w", dt, CanonicalStation(station), year, err)
		}
		return body, nil
	case PeriodMonth:
		m, _ := period.Month()
		mi, _ := LookupMonth(m)
		body, err := s.source.MonthlyFile(ctx, station, dt, mi, s.CurrentYear())
		if err != nil {
			return "", fmt.Errorf("%s archive %s/%s: %w", dt, CanonicalStation(station), mi.Abbrev, err)
		}
		return body, nil
	default:
		return "", ErrInvalidPeriod
	}
}

// RealtimeStdMet decodes the rolling stdmet feed of a moored station.
func (s *Service) RealtimeStdMet(ctx context.Context, station string) ([]StdMetObservation, error) {
	body, err := s.realtimeBody(ctx, station, FeedStdMet)
	if err != nil {
		return nil, err
	}
	records, err := s.decoder.StdMet(station, body, LayoutRealtime)
	return records, s.decoded(station, StandardMeteorological, "realtime", len(records), err)
}

// RealtimeDrift decodes the rolling stdmet feed of a drifting buoy.
func (s *Service) RealtimeDrift(ctx context.Context, station string) ([]StdMetObservation, error) {
	body, err := s.realtimeBody(ctx, station, FeedDrift)
	if err != nil {
		return nil, err
	}
	records, err := s.decoder.StdMet(station, body, LayoutDrift)
	return records, s.decoded(station, StandardMeteorological, "drift", len(records), err)
}

// RealtimeContinuousWinds decodes the rolling cwind feed.
func (s *Service) RealtimeContinuousWinds(ctx context.Context, station string) ([]ContinuousWindsObservation, error) {
	body, err := s.realtimeBody(ctx, station, FeedContinuousWinds)
	if err != nil {
		return nil, err
	}
	records, err := s.decoder.ContinuousWinds(station, body)
	return records, s.decoded(station, ContinuousWinds, "realtime", len(records), err)
}

// RealtimeSpectralSummary decodes the rolling spectral wave summary feed.
func (s *Service) RealtimeSpectralSummary(ctx context.Context, station string) ([]SpectralSummaryObservation, error) {
	body, err := s.realtimeBody(ctx, station, FeedSpectralSummary)
	if err != nil {
		return nil, err
	}
	records, err := s.decoder.SpectralSummary(station, body)
	return records, s.decoded(station, SpectralWaveSummary, "realtime", len(records), err)
}

func (s *Service) realtimeBody(ctx context.Context, station string, feed Feed) (string, error) {
	body, err := s.source.RealtimeFile(ctx, station, feed)
	if err != nil {
		return "", fmt.Errorf("realtime %s feed %s: %w", feed, CanonicalStation(station), err)
	}
	return body, nil
}

// decoded logs a decode outcome and wraps a failure with its origin.
func (s *Service) decoded(station string, dt DataType, label string, count int, err error) error {
	station = CanonicalStation(station)
	if err != nil {
		s.logger.Error().Err(err).Str("station", station).Str("data_type", dt.Code()).Str("period", label).Msg("decode failed")
		return fmt.Errorf("decode %s %s/%s: %w", dt, station, label, err)
	}
	if count == 0 {
		s.logger.Debug().Str("station", station).Str("data_type", dt.Code()).Str("period", label).Msg("no observations found")
	}
	return nil
}
