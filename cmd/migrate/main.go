package main

import (
	"context"
	"os"
	"strings"

	"github.com/fhuszti/image-optimiser-go/internal/config"
	"github.com/fhuszti/image-optimiser-go/internal/db"
	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/migration"
	_ "github.com/go-sql-driver/mysql"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	logger.Init()

	database, err := initDb(cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	if err := migration.MigrateUp(database.DB); err != nil {
		logger.Errorf(ctx, "❌  Migration up failed: %v", err)
		os.Exit(1)
	}

	logger.Info(ctx, "✅  Migrations applied successfully")
}

func initDb(cfg *config.Settings) (*db.Database, error) {
	sep := "?"
	if strings.Contains(cfg.MariaDBDSN, "?") {
		sep = "&"
	}
	return db.New(cfg.MariaDBDSN+sep+"multiStatements=true", cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
}
