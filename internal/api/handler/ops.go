// Package handler provides HTTP handlers for the tidewire API.
package handler

import (
	"net/http"
	"time"

	"github.com/tidewire/tidewire/internal/api/models"
	"github.com/tidewire/tidewire/internal/api/response"
	"github.com/tidewire/tidewire/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler. registry may be nil, in which case
// readiness reports no upstreams.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
	}
}

// HealthCheck handles GET /health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]any{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /ready. It fails while any upstream breaker is
// open and reports DEGRADED while one is probing.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ready := models.Readiness{
		Status:    models.HealthStatusOK,
		Time:      models.Timestamp(time.Now()),
		Upstreams: []models.UpstreamStatus{},
	}

	if h.registry != nil {
		for _, u := range h.registry.All() {
			status := upstreamStatus(u)
			switch {
			case status.Status == models.HealthStatusFail:
				ready.Status = models.HealthStatusFail
			case status.Status == models.HealthStatusDegraded && ready.Status == models.HealthStatusOK:
				ready.Status = models.HealthStatusDegraded
			}
			ready.Upstreams = append(ready.Upstreams, status)
		}
	}

	code := http.StatusOK
	if ready.Status == models.HealthStatusFail {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, r, code, ready)
}

func upstreamStatus(u *resilience.UpstreamHealth) models.UpstreamStatus {
	status := models.UpstreamStatus{
		Name:         u.Name,
		Status:       models.HealthStatusFail,
		CircuitState: u.CircuitState.String(),
		Requests:     u.Counts.Requests,
		Failures:     u.Counts.TotalFailures,
	}
	switch {
	case u.IsHealthy():
		status.Status = models.HealthStatusOK
	case u.IsDegraded():
		status.Status = models.HealthStatusDegraded
	}
	if u.LastSuccessAt != nil {
		ts := models.Timestamp(*u.LastSuccessAt)
		status.LastSuccessAt = &ts
	}
	if u.LastFailureAt != nil {
		ts := models.Timestamp(*u.LastFailureAt)
		status.LastFailureAt = &ts
	}
	if u.LastError != "" {
		msg := u.LastError
		status.Message = &msg
	}
	return status
}
