package handlers

import (
	"encoding/json"
	"net/http"

	"javelin-lab/internal/domain/models"
	"javelin-lab/internal/domain/services"
	"javelin-lab/pkg/logger"
)

// DeepfakeHandler handles image analysis endpoints
type DeepfakeHandler struct {
	engine *services.Engine
	logger *logger.Logger
}

// NewDeepfakeHandler creates a new DeepfakeHandler
func NewDeepfakeHandler(engine *services.Engine, log *logger.Logger) *DeepfakeHandler {
	return &DeepfakeHandler{
		engine: engine,
		logger: log.WithComponent("deepfake-handler"),
	}
}

type scanImageRequest struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
}

// ScanImage handles POST /api/v1/deepfake/scan-image
func (h *DeepfakeHandler) ScanImage(w http.ResponseWriter, r *http.Request) {
	var req scanImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.engine.ScanImage(r.Context(), models.ScanInput{
		Kind:      models.ScanKindImage,
		Filename:  req.Filename,
		SizeBytes: req.SizeBytes,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
