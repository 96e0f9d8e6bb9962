package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tidewire/tidewire/internal/api/middleware"
	"github.com/tidewire/tidewire/internal/api/models"
	"github.com/tidewire/tidewire/internal/api/response"
	"github.com/tidewire/tidewire/internal/ndbc"
	"github.com/tidewire/tidewire/internal/ndbc/noaa"
	"github.com/tidewire/tidewire/internal/provider/resilience"
)

// writeError maps engine and upstream failures onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	var statusErr *noaa.StatusError

	switch {
	case errors.Is(err, ndbc.ErrUnsupportedDataType):
		response.BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: "type", Message: "unsupported data type", Code: "UNSUPPORTED"},
		})
		return
	case errors.Is(err, ndbc.ErrInvalidPeriod):
		response.BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: "period", Message: "must be a four-digit year or a month abbreviation", Code: "INVALID_PERIOD"},
		})
		return
	case errors.Is(err, ndbc.ErrStationNotFound):
		response.NotFound(w, r, err.Error())
		return
	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound:
		response.NotFound(w, r, "file not published upstream")
		return
	case errors.Is(err, resilience.ErrCircuitOpen):
		response.ServiceUnavailable(w, r, "upstream temporarily unavailable")
		return
	case errors.Is(err, context.Canceled):
		return
	}

	log.Error().
		Err(err).
		Str("request_id", middleware.GetRequestID(r.Context())).
		Str("path", r.URL.Path).
		Msg("upstream request failed")

	if errors.Is(err, ndbc.ErrValueParse) {
		response.BadGateway(w, r, "upstream file format not recognized")
		return
	}
	response.BadGateway(w, r, err.Error())
}
