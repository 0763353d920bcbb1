package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// MaybeRunDev brings the schema up to date on API start when running in dev
// with STOREFRONT_AUTO_MIGRATE set. Other environments migrate out of band.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"driver": cfg.DB.Driver, "env": cfg.App.Env})
	if cfg.DB.IsSQLite() {
		logg.Info(ctx, "migrate.autorun.sqlite_schema")
		return ApplySQLiteSchema(ctx, sqlDB)
	}

	logg.Info(ctx, "migrate.autorun.start")
	if err := Run(ctx, sqlDB, Source{Logg: logg}, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "migrate.autorun.done")
	return nil
}
