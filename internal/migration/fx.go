package migration

import (
	"context"

	"github.com/smallbiznis/storepulse/internal/config"
	"github.com/smallbiznis/storepulse/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if err := Apply(conn); err != nil {
			return err
		}

		if !cfg.SeedDemoData || cfg.IsProduction() {
			return nil
		}
		summary, err := seed.EnsureDemoFleet(context.Background(), conn, seed.DefaultFleet())
		if err != nil {
			return err
		}
		log.Named("seed").Info("demo fleet ready",
			zap.Int("stores", summary.Stores),
			zap.Int("days", summary.Days),
			zap.Bool("created", summary.Created),
		)
		return nil
	}),
)
