package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"javelin-lab/internal/api"
	"javelin-lab/internal/api/handlers"
	"javelin-lab/internal/config"
	"javelin-lab/internal/domain/services"
	"javelin-lab/internal/infrastructure/cache"
	"javelin-lab/internal/infrastructure/database"
	"javelin-lab/internal/remote"
	"javelin-lab/internal/streaming"
	"javelin-lab/pkg/logger"
	"javelin-lab/pkg/random"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("JAVELIN_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting Javelin Lab")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize infrastructure (both optional)
	db, redisCache := initInfrastructure(ctx, cfg, log)
	defer func() {
		if db != nil {
			db.Close()
		}
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Initialize streaming infrastructure
	var natsPublisher *streaming.NATSPublisher
	if cfg.NATS.Enabled {
		natsPublisher, err = streaming.NewNATSPublisher(ctx, cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, continuing without event mirroring")
		}
	}

	eventBus := streaming.NewEventBus(natsPublisher, log)
	defer eventBus.Close()

	wsHub := streaming.NewWebSocketHub(log)
	go wsHub.Run(ctx)

	publisher := streaming.NewEventBusPublisher(eventBus, wsHub)

	// Initialize the scoring pipeline. One shared entropy source; tests
	// swap in a deterministic one.
	rng := random.New()
	extractor := services.NewExtractor(cfg.Engine.Scoring.Bands.Suspicious, rng, log)
	scorer := services.NewScorer(cfg.Engine.Scoring.Confidence, rng, log)
	policy := services.NewPolicy(cfg.Engine.Scoring.Bands)

	var engineOpts []services.EngineOption
	var vaultRemote services.RemoteVault
	if remoteClient := remote.New(cfg.Remote, log); remoteClient != nil {
		engineOpts = append(engineOpts, services.WithRemote(remoteClient))
		vaultRemote = remoteClient
		log.Info().Str("base_url", cfg.Remote.BaseURL).Msg("remote backend configured")
	}
	if redisCache != nil {
		engineOpts = append(engineOpts, services.WithCache(redisCache))
	}

	var vaultRepo services.VaultRepository
	if db != nil {
		if err := db.Migrate(ctx); err != nil {
			log.Warn().Err(err).Msg("database migration failed, continuing without persistence")
			db.Close()
			db = nil
		} else {
			vaultRepo = database.NewVaultFileRepository(db)
			engineOpts = append(engineOpts, services.WithHistoryStore(database.NewScanHistoryRepository(db)))
		}
	}

	engine := services.NewEngine(extractor, scorer, policy, publisher, log, engineOpts...)
	vault := services.NewVaultService(cfg.Engine.Vault, vaultRemote, vaultRepo, log)

	// Timed runs are bound to the app context so they keep going after
	// the HTTP request that started them returns.
	monitor := services.NewMonitor(ctx, cfg.Engine.Monitor, rng, publisher, log)
	simulation := services.NewSimulationManager(ctx, cfg.Engine.Simulation, rng, publisher, log)
	integrity := services.NewIntegritySweeper(ctx, cfg.Engine.Integrity, rng, publisher, log)

	// Initialize handlers
	h := handlers.NewHandlers(handlers.Dependencies{
		Engine:     engine,
		Vault:      vault,
		Monitor:    monitor,
		Simulation: simulation,
		Integrity:  integrity,
		Cache:      redisCache,
		Database:   db,
		Hub:        wsHub,
		Logger:     log,
	})

	// Create router
	router := api.NewRouter(*cfg, h, redisCache, log)

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	// Stop the monitor's tick loop along with everything else
	monitor.Stop(context.Background())
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// initInfrastructure connects to PostgreSQL and Redis. Both are optional:
// the engine keeps full functionality in memory without them.
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.Postgres, *cache.Cache) {
	var db *database.Postgres
	if cfg.Database.Enabled {
		var err error
		db, err = database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing without database")
			db = nil
		}
	}

	var redisCache *cache.Cache
	if cfg.Redis.Enabled {
		var err error
		redisCache, err = cache.NewCache(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
			redisCache = nil
		}
	}

	return db, redisCache
}
