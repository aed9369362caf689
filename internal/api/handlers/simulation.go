package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"javelin-lab/internal/domain/services"
	"javelin-lab/pkg/logger"
)

// SimulationHandler handles attack simulation runs
type SimulationHandler struct {
	manager *services.SimulationManager
	logger  *logger.Logger
}

// NewSimulationHandler creates a new SimulationHandler
func NewSimulationHandler(manager *services.SimulationManager, log *logger.Logger) *SimulationHandler {
	return &SimulationHandler{
		manager: manager,
		logger:  log.WithComponent("simulation-handler"),
	}
}

// Start handles POST /api/v1/simulation/start
func (h *SimulationHandler) Start(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusCreated, h.manager.Start(r.Context()))
}

// Stop handles POST /api/v1/simulation/{id}/stop
func (h *SimulationHandler) Stop(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	run, err := h.manager.Stop(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, run)
}

// Get handles GET /api/v1/simulation/{id}
func (h *SimulationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	run, err := h.manager.Get(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, run)
}

// List handles GET /api/v1/simulation
func (h *SimulationHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"runs": h.manager.List(),
	})
}
