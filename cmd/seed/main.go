package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/shopcart-backend/internal/catalog"
	"github.com/angelmondragon/shopcart-backend/pkg/config"
	"github.com/angelmondragon/shopcart-backend/pkg/db"
	"github.com/angelmondragon/shopcart-backend/pkg/logger"
	"github.com/angelmondragon/shopcart-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeSyncSQLite(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to sync sqlite schema", err)
		os.Exit(1)
	}

	created, err := seedCatalog(ctx, catalog.NewRepository(dbClient.DB()), sampleProducts())
	if err != nil {
		logg.Error(ctx, "failed to seed catalog", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "created", created), "catalog seeded")
}
