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

// FileService is the subset of *ndbc.Service the bulk file endpoints use.
type FileService interface {
	HistoricalFiles(ctx context.Context, dt ndbc.DataType) ([]ndbc.HistoricFile, error)
	CurrentYearFiles(ctx context.Context, dt ndbc.DataType) ([]ndbc.HistoricFile, error)
	RealtimeFiles(ctx context.Context, feed ndbc.Feed) ([]ndbc.RealtimeFile, error)
}

var _ FileService = (*ndbc.Service)(nil)

// FilesHandler handles bulk file discovery endpoints.
type FilesHandler struct {
	service FileService
	log     zerolog.Logger
}

// NewFilesHandler creates a new FilesHandler.
func NewFilesHandler(service FileService, log zerolog.Logger) *FilesHandler {
	return &FilesHandler{service: service, log: log}
}

// ListHistorical handles GET /v1/files/{type}/historical.
func (h *FilesHandler) ListHistorical(w http.ResponseWriter, r *http.Request) {
	dt := ndbc.ParseDataType(chi.URLParam(r, "type"))
	files, err := h.service.HistoricalFiles(r.Context(), dt)
	h.writeHistoric(w, r, dt, files, err)
}

// ListCurrentYear handles GET /v1/files/{type}/current.
func (h *FilesHandler) ListCurrentYear(w http.ResponseWriter, r *http.Request) {
	dt := ndbc.ParseDataType(chi.URLParam(r, "type"))
	files, err := h.service.CurrentYearFiles(r.Context(), dt)
	h.writeHistoric(w, r, dt, files, err)
}

// ListRealtime handles GET /v1/files/{type}/realtime.
func (h *FilesHandler) ListRealtime(w http.ResponseWriter, r *http.Request) {
	feed, ok := ndbc.ParseFeed(chi.URLParam(r, "type"))
	if !ok {
		writeError(w, r, h.log, ndbc.ErrUnsupportedDataType)
		return
	}
	files, err := h.service.RealtimeFiles(r.Context(), feed)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, models.RealtimeFileList{
		Feed:  feed,
		Items: files,
		Meta:  models.ListMeta{Count: len(files)},
	})
}

func (h *FilesHandler) writeHistoric(w http.ResponseWriter, r *http.Request, dt ndbc.DataType, files []ndbc.HistoricFile, err error) {
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
