package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/ronled86/InsuraIQ/internal/config"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
)

// Migrate applies all pending schema migrations from the configured
// migrations directory.  A schema already at the latest version is not an
// error.
func Migrate(cfg config.DatabaseConfig, logger logging.Logger) error {
	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.DSN())
	if err != nil {
		return fmt.Errorf("postgres: failed to init migrator: %w", err)
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			if logger != nil {
				logger.Info("schema is up to date")
			}
			return nil
		}
		return fmt.Errorf("postgres: migration failed: %w", err)
	}

	version, dirty, _ := m.Version()
	if logger != nil {
		logger.Info("schema migrated",
			logging.Int("version", int(version)),
			logging.Bool("dirty", dirty),
		)
	}
	return nil
}
