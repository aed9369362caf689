package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"javelin-lab/internal/config"
	"javelin-lab/pkg/logger"
)

// Postgres wraps a pgx connection pool
type Postgres struct {
	Pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewPostgres creates a connection pool and verifies connectivity
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*Postgres, error) {
	log = log.WithComponent("database")

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.DBName).
		Msg("database connection established")

	return &Postgres{Pool: pool, logger: log}, nil
}

// Migrate creates the engine's tables when they do not exist
func (p *Postgres) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS scan_history (
			id BIGSERIAL PRIMARY KEY,
			url TEXT NOT NULL,
			classification TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			scanned_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_history_scanned_at ON scan_history (scanned_at DESC)`,
		`CREATE TABLE IF NOT EXISTS vault_files (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			size_bytes BIGINT NOT NULL,
			hash TEXT NOT NULL,
			encrypted BOOLEAN NOT NULL,
			uploaded_at TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := p.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	p.logger.Info().Msg("database migrations applied")
	return nil
}

// Ping verifies the pool is still healthy
func (p *Postgres) Ping(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}

// Close closes the connection pool
func (p *Postgres) Close() {
	p.Pool.Close()
	p.logger.Info().Msg("database connection closed")
}
