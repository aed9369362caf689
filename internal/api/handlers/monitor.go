package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"javelin-lab/internal/domain/services"
	"javelin-lab/pkg/logger"
)

// MonitorHandler handles the real-time protection monitor
type MonitorHandler struct {
	monitor *services.Monitor
	logger  *logger.Logger
}

// NewMonitorHandler creates a new MonitorHandler
func NewMonitorHandler(monitor *services.Monitor, log *logger.Logger) *MonitorHandler {
	return &MonitorHandler{
		monitor: monitor,
		logger:  log.WithComponent("monitor-handler"),
	}
}

// Start handles POST /api/v1/monitor/start
func (h *MonitorHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.monitor.Start(r.Context())
	respondJSON(w, http.StatusOK, h.monitor.Snapshot())
}

// Pause handles POST /api/v1/monitor/pause
func (h *MonitorHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.monitor.Pause(r.Context())
	respondJSON(w, http.StatusOK, h.monitor.Snapshot())
}

// Resume handles POST /api/v1/monitor/resume
func (h *MonitorHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.monitor.Resume(r.Context())
	respondJSON(w, http.StatusOK, h.monitor.Snapshot())
}

// Stop handles POST /api/v1/monitor/stop
func (h *MonitorHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.monitor.Stop(r.Context())
	respondJSON(w, http.StatusOK, h.monitor.Snapshot())
}

// Status handles GET /api/v1/monitor/status
func (h *MonitorHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.monitor.Snapshot())
}

// ResolveEvent handles POST /api/v1/monitor/events/{id}/resolve
func (h *MonitorHandler) ResolveEvent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	if err := h.monitor.ResolveEvent(id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
}
