package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"javelin-lab/internal/api/handlers"
	apimiddleware "javelin-lab/internal/api/middleware"
	"javelin-lab/internal/config"
	"javelin-lab/internal/infrastructure/cache"
	"javelin-lab/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	cache    *cache.Cache
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, h *handlers.Handlers, c *cache.Cache, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		cache:    c,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Rate limiting
	if r.config.RateLimit.Enabled && r.cache != nil {
		router.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit))
	}

	// Health checks
	router.Get("/health", r.handlers.Health.Check)
	router.Get("/ready", r.handlers.Health.Ready)

	router.Route("/api/v1", func(api chi.Router) {
		// Anti-phishing endpoints
		api.Route("/phishing", func(ph chi.Router) {
			ph.Post("/scan-url", r.handlers.Phishing.ScanURL)
			ph.Get("/history", r.handlers.Phishing.History)
			ph.Get("/stats", r.handlers.Phishing.Stats)
		})

		// Deepfake detection endpoints
		api.Route("/deepfake", func(df chi.Router) {
			df.Post("/scan-image", r.handlers.Deepfake.ScanImage)
		})

		// Anti-ransomware endpoints
		api.Route("/ransomware", func(rw chi.Router) {
			rw.Post("/check-encryption", r.handlers.Ransomware.CheckEncryption)

			rw.Route("/vault", func(vault chi.Router) {
				vault.Post("/upload", r.handlers.Ransomware.UploadFile)
				vault.Get("/files", r.handlers.Ransomware.ListFiles)
				vault.Delete("/files/{id}", r.handlers.Ransomware.DeleteFile)
				vault.Get("/storage", r.handlers.Ransomware.StorageInfo)
			})
		})

		// Real-time monitor endpoints
		api.Route("/monitor", func(mon chi.Router) {
			mon.Post("/start", r.handlers.Monitor.Start)
			mon.Post("/pause", r.handlers.Monitor.Pause)
			mon.Post("/resume", r.handlers.Monitor.Resume)
			mon.Post("/stop", r.handlers.Monitor.Stop)
			mon.Get("/status", r.handlers.Monitor.Status)
			mon.Post("/events/{id}/resolve", r.handlers.Monitor.ResolveEvent)
		})

		// Attack simulation endpoints
		api.Route("/simulation", func(sim chi.Router) {
			sim.Get("/", r.handlers.Simulation.List)
			sim.Post("/start", r.handlers.Simulation.Start)
			sim.Get("/{id}", r.handlers.Simulation.Get)
			sim.Post("/{id}/stop", r.handlers.Simulation.Stop)
		})

		// File integrity endpoints
		api.Route("/integrity", func(integ chi.Router) {
			integ.Post("/sweep", r.handlers.Integrity.Start)
			integ.Get("/sweep/{id}", r.handlers.Integrity.Get)
			integ.Post("/sweep/{id}/cancel", r.handlers.Integrity.Cancel)
		})

		api.Get("/streaming/stats", r.handlers.Streaming.GetStats)
	})

	// WebSocket streaming endpoint (live engine events for the UI)
	router.Get("/ws/events", r.handlers.Streaming.HandleWebSocket)

	return router
}
