package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/shopcart-backend/pkg/config"
	"github.com/angelmondragon/shopcart-backend/pkg/db"
	"github.com/angelmondragon/shopcart-backend/pkg/db/models"
	"github.com/angelmondragon/shopcart-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations on API boot when running in dev with
// SHOPCART_AUTO_MIGRATE set. Other environments run cmd/migrate explicitly.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !ShouldAutoRun(cfg) {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := Run(ctx, logg, sqlDB, "", "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}

// ShouldAutoRun reports whether the dev auto-migration is enabled. SQLite
// deployments are skipped because the SQL files target postgres.
func ShouldAutoRun(cfg *config.Config) bool {
	if cfg == nil {
		return false
	}
	if db.NormalizeDriver(cfg.DB.Driver) == db.DriverSQLite {
		return false
	}
	return cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate
}

// MaybeSyncSQLite creates the schema through gorm for local SQLite runs with
// SHOPCART_AUTO_MIGRATE set, since the goose files are postgres-only.
func MaybeSyncSQLite(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg == nil || !cfg.FeatureFlags.AutoMigrate || client.Driver() != db.DriverSQLite {
		return nil
	}

	logg.Info(ctx, "syncing sqlite schema")
	if err := client.DB().WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
	); err != nil {
		return fmt.Errorf("auto-migrating sqlite schema: %w", err)
	}
	return nil
}
