package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"javelin-lab/internal/domain/services"
	"javelin-lab/pkg/logger"
)

// RansomwareHandler handles encryption checks and the file vault
type RansomwareHandler struct {
	engine *services.Engine
	vault  *services.VaultService
	logger *logger.Logger
}

// NewRansomwareHandler creates a new RansomwareHandler
func NewRansomwareHandler(engine *services.Engine, vault *services.VaultService, log *logger.Logger) *RansomwareHandler {
	return &RansomwareHandler{
		engine: engine,
		vault:  vault,
		logger: log.WithComponent("ransomware-handler"),
	}
}

type checkEncryptionRequest struct {
	FileName string `json:"file_name"`
}

// CheckEncryption handles POST /api/v1/ransomware/check-encryption
func (h *RansomwareHandler) CheckEncryption(w http.ResponseWriter, r *http.Request) {
	var req checkEncryptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.engine.CheckFile(r.Context(), req.FileName)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type vaultUploadRequest struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
}

// UploadFile handles POST /api/v1/ransomware/vault/upload
func (h *RansomwareHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	var req vaultUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	file, err := h.vault.Upload(r.Context(), req.Name, req.SizeBytes)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, file)
}

// ListFiles handles GET /api/v1/ransomware/vault/files
func (h *RansomwareHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"files":   h.vault.List(),
		"storage": h.vault.StorageInfo(),
	})
}

// DeleteFile handles DELETE /api/v1/ransomware/vault/files/{id}
func (h *RansomwareHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid file id")
		return
	}

	if err := h.vault.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// StorageInfo handles GET /api/v1/ransomware/vault/storage
func (h *RansomwareHandler) StorageInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.vault.StorageInfo())
}
