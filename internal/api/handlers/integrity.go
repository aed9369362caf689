package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"javelin-lab/internal/domain/services"
	"javelin-lab/pkg/logger"
)

// IntegrityHandler handles file integrity sweeps
type IntegrityHandler struct {
	sweeper *services.IntegritySweeper
	logger  *logger.Logger
}

// NewIntegrityHandler creates a new IntegrityHandler
func NewIntegrityHandler(sweeper *services.IntegritySweeper, log *logger.Logger) *IntegrityHandler {
	return &IntegrityHandler{
		sweeper: sweeper,
		logger:  log.WithComponent("integrity-handler"),
	}
}

type startSweepRequest struct {
	TotalFiles int `json:"total_files"`
}

// Start handles POST /api/v1/integrity/sweep
func (h *IntegrityHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startSweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sweep, err := h.sweeper.Start(r.Context(), req.TotalFiles)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, sweep)
}

// Get handles GET /api/v1/integrity/sweep/{id}
func (h *IntegrityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid sweep id")
		return
	}

	sweep, err := h.sweeper.Get(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sweep)
}

// Cancel handles POST /api/v1/integrity/sweep/{id}/cancel
func (h *IntegrityHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid sweep id")
		return
	}

	sweep, err := h.sweeper.Cancel(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sweep)
}
