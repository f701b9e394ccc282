// Package postgres provides the PostgreSQL connection pool, schema migrator,
// and repository implementations.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ronled86/InsuraIQ/internal/config"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
)

// Connect creates a pgx connection pool from the database configuration and
// verifies connectivity with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger logging.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping failed: %w", err)
	}

	if logger != nil {
		logger.Info("connected to postgres",
			logging.String("host", cfg.Host),
			logging.Int("port", cfg.Port),
			logging.String("database", cfg.Database),
		)
	}
	return pool, nil
}
