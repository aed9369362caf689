package handlers

import (
	"javelin-lab/internal/domain/services"
	"javelin-lab/internal/infrastructure/cache"
	"javelin-lab/internal/infrastructure/database"
	"javelin-lab/internal/streaming"
	"javelin-lab/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health     *HealthHandler
	Phishing   *PhishingHandler
	Deepfake   *DeepfakeHandler
	Ransomware *RansomwareHandler
	Monitor    *MonitorHandler
	Simulation *SimulationHandler
	Integrity  *IntegrityHandler
	Streaming  *StreamingHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Engine     *services.Engine
	Vault      *services.VaultService
	Monitor    *services.Monitor
	Simulation *services.SimulationManager
	Integrity  *services.IntegritySweeper
	Cache      *cache.Cache
	Database   *database.Postgres
	Hub        *streaming.WebSocketHub
	Logger     *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(deps.Cache, deps.Database, deps.Logger),
		Phishing:   NewPhishingHandler(deps.Engine, deps.Logger),
		Deepfake:   NewDeepfakeHandler(deps.Engine, deps.Logger),
		Ransomware: NewRansomwareHandler(deps.Engine, deps.Vault, deps.Logger),
		Monitor:    NewMonitorHandler(deps.Monitor, deps.Logger),
		Simulation: NewSimulationHandler(deps.Simulation, deps.Logger),
		Integrity:  NewIntegrityHandler(deps.Integrity, deps.Logger),
		Streaming:  NewStreamingHandler(deps.Hub, deps.Logger),
	}
}
