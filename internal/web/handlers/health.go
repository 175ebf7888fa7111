package handlers

import (
	"context"
	"net/http"
	"time"
)

const (
	healthStatusHealthy = "healthy"
	healthStatusOK      = "ok"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthzHandler handles liveness probes (/healthz)
// Returns 200 if the application is running
func (h *Handler) healthzHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
}

// readyzHandler handles readiness probes (/readyz)
// Returns 200 if the application is ready to serve traffic, checking
// database, object storage and cache connectivity
func (h *Handler) readyzHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			checks["database"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			checks["database"] = healthStatusHealthy
		}
	}

	if h.storageService != nil {
		if err := h.storageService.Health(ctx); err != nil {
			checks["storage"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			checks["storage"] = healthStatusHealthy
		}
	}

	if h.cacheClient != nil {
		if err := h.cacheClient.Health(ctx); err != nil {
			checks["cache"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			checks["cache"] = healthStatusHealthy
		}
	}

	status := http.StatusOK
	response := HealthResponse{Status: healthStatusOK, Checks: checks}
	if !allHealthy {
		status = http.StatusServiceUnavailable
		response.Status = "unavailable"
	}

	writeJSON(w, status, response)
}
