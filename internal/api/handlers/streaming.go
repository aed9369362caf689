package handlers

import (
	"net/http"

	"javelin-lab/internal/streaming"
	"javelin-lab/pkg/logger"
)

// StreamingHandler handles the WebSocket event stream
type StreamingHandler struct {
	hub    *streaming.WebSocketHub
	logger *logger.Logger
}

// NewStreamingHandler creates a new StreamingHandler
func NewStreamingHandler(hub *streaming.WebSocketHub, log *logger.Logger) *StreamingHandler {
	return &StreamingHandler{
		hub:    hub,
		logger: log.WithComponent("streaming-handler"),
	}
}

// HandleWebSocket handles GET /ws/events
func (h *StreamingHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r)
}

// GetStats handles GET /api/v1/streaming/stats
func (h *StreamingHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"connected_clients": h.hub.ClientCount(),
	})
}
