package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tidewire/tidewire/internal/api/models"
	"github.com/tidewire/tidewire/internal/api/response"
	"github.com/tidewire/tidewire/internal/ndbc"
)

// StationService is the subset of *ndbc.Service the station endpoints use.
type StationService interface {
	ActiveStations(ctx context.Context) ([]ndbc.Station, error)
	Station(ctx context.Context, id string) (*ndbc.Station, error)
	StationMetadata(ctx context.Context, id string) (*ndbc.StationMetadata, error)
	StationFiles(ctx context.Context, station string, dt ndbc.DataType) ([]ndbc.HistoricFile, error)

	ArchivedStdMet(ctx context.Context, station string, period ndbc.Period) ([]ndbc.StdMetObservation, error)
	ArchivedContinuousWinds(ctx context.Context, station string, period ndbc.Period) ([]ndbc.ContinuousWindsObservation, error)
	RealtimeStdMet(ctx context.Context, station string) ([]ndbc.StdMetObservation, error)
	RealtimeDrift(ctx context.Context, station string) ([]ndbc.StdMetObservation, error)
	RealtimeContinuousWinds(ctx context.Context, station string) ([]ndbc.ContinuousWindsObservation, error)
	RealtimeSpectralSummary(ctx context.Context, station string) ([]ndbc.SpectralSummaryObservation, error)
}

var _ StationService = (*ndbc.Service)(nil)

// StationHandler handles station endpoints.
type StationHandler struct {
	service StationService
	log     zerolog.Logger
}

// NewStationHandler creates a new StationHandler.
func NewStationHandler(service StationService, log zerolog.Logger) *StationHandler {
	return &StationHandler{service: service, log: log}
}

// ListStations handles GET /v1/station - the enriched active roster.
func (h *StationHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.service.ActiveStations(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, models.StationList{
		Items: stations,
		Meta:  models.ListMeta{Count: len(stations)},
	})
}

// GetStation handles GET /v1/station/{stationId}.
func (h *StationHandler) GetStation(w http.ResponseWriter, r *http.Request) {
	station, err := h.service.Station(r.Context(), chi.URLParam(r, "stationId"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, station)
}

// GetStationMetadata handles GET /v1/station/{stationId}/metadata.
func (h *StationHandler) GetStationMetadata(w http.ResponseWriter, r *http.Request) {
	meta, err := h.service.StationMetadata(r.Context(), chi.URLParam(r, "stationId"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, meta)
}

// ListStationFiles handles GET /v1/station/{stationId}/files/{type}.
func (h *StationHandler) ListStationFiles(w http.ResponseWriter, r *http.Request) {
	dt := ndbc.ParseDataType(chi.URLParam(r, "type"))
	files, err := h.service.StationFiles(r.Context(), chi.URLParam(r, "stationId"), dt)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, models.HistoricFileList{
		DataType: dt,
		Items:    files,
		Meta:     models.ListMeta{Count: len(files)},
	})
}

// GetRealtime handles GET /v1/station/{stationId}/{type}/realtime where type
// is stdmet, stdmetdrift, cwind or spec.
func (h *StationHandler) GetRealtime(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	station := chi.URLParam(r, "stationId")
	feed, ok := ndbc.ParseFeed(chi.URLParam(r, "type"))
	if !ok {
		writeError(w, r, h.log, ndbc.ErrUnsupportedDataType)
		return
	}
	source := "realtime/" + string(feed)

	switch feed {
	case ndbc.FeedStdMet:
		records, err := h.service.RealtimeStdMet(ctx, station)
		writeObservations(w, r, h.log, station, ndbc.StandardMeteorological, source, records, err)
	case ndbc.FeedDrift:
		records, err := h.service.RealtimeDrift(ctx, station)
		writeObservations(w, r, h.log, station, ndbc.StandardMeteorological, source, records, err)
	case ndbc.FeedContinuousWinds:
		records, err := h.service.RealtimeContinuousWinds(ctx, station)
		writeObservations(w, r, h.log, station, ndbc.ContinuousWinds, source, records, err)
	case ndbc.FeedSpectralSummary:
		records, err := h.service.RealtimeSpectralSummary(ctx, station)
		writeObservations(w, r, h.log, station, ndbc.SpectralWaveSummary, source, records, err)
	}
}

// GetArchive handles GET /v1/station/{stationId}/{type}/{period} where type
// is stdmet or cwind and period is a year or a month abbreviation.
func (h *StationHandler) GetArchive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	station := chi.URLParam(r, "stationId")
	dt := ndbc.ParseDataType(chi.URLParam(r, "type"))
	period, err := ndbc.ParsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	source := "archive/" + period.String()

	switch dt {
	case ndbc.StandardMeteorological:
		records, err := h.service.ArchivedStdMet(ctx, station, period)
		writeObservations(w, r, h.log, station, dt, source, records, err)
	case ndbc.ContinuousWinds:
		records, err := h.service.ArchivedContinuousWinds(ctx, station, period)
		writeObservations(w, r, h.log, station, dt, source, records, err)
	default:
		writeError(w, r, h.log, ndbc.ErrUnsupportedDataType)
	}
}

func writeObservations[T any](w http.ResponseWriter, r *http.Request, log zerolog.Logger,
	station string, dt ndbc.DataType, source string, records []T, err error) {
	if err != nil {
		writeError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, models.NewObservations(station, dt, source, records))
}
