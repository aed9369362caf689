package handlers

import (
	"encoding/json"
	"net/http"

	"javelin-lab/internal/domain/services"
	"javelin-lab/pkg/logger"
)

// PhishingHandler handles URL scanning endpoints
type PhishingHandler struct {
	engine *services.Engine
	logger *logger.Logger
}

// NewPhishingHandler creates a new PhishingHandler
func NewPhishingHandler(engine *services.Engine, log *logger.Logger) *PhishingHandler {
	return &PhishingHandler{
		engine: engine,
		logger: log.WithComponent("phishing-handler"),
	}
}

type scanURLRequest struct {
	URL string `json:"url"`
}

// ScanURL handles POST /api/v1/phishing/scan-url
func (h *PhishingHandler) ScanURL(w http.ResponseWriter, r *http.Request) {
	var req scanURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.engine.ScanURL(r.Context(), req.URL)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// History handles GET /api/v1/phishing/history
func (h *PhishingHandler) History(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"history": h.engine.History(),
	})
}

// Stats handles GET /api/v1/phishing/stats
func (h *PhishingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Stats())
}
