package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fhuszti/image-optimiser-go/internal/config"
	"github.com/fhuszti/image-optimiser-go/internal/db"
	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/repository/mariadb"
	"github.com/fhuszti/image-optimiser-go/internal/service"
	attachmentSvc "github.com/fhuszti/image-optimiser-go/internal/usecase/attachment"
)

func main() {
	loop := flag.Bool("loop", false, "keep polling until the backlog is drained")
	pause := flag.Duration("pause", 0, "wait between polls when looping")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	logger.Init()

	database := initDb(ctx, cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	stack, err := service.NewStack(ctx, cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialise optimiser: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := stack.Close(); err != nil {
			logger.Warnf(ctx, "optimiser close error: %v", err)
		}
	}()

	repo := mariadb.NewAttachmentRepository(database.DB)
	bulk := attachmentSvc.NewBulkOptimiser(repo, stack.AttachmentOptimiser(repo, cfg, true), stack.Records, cfg.Optimisation.BulkBatchSize)

	for {
		progress, err := bulk.Poll(ctx)
		if err != nil {
			logger.Errorf(ctx, "❌  Bulk optimisation failed: %v", err)
			os.Exit(1)
		}
		logger.Infof(ctx, "processed %d (%d failed), %d remaining, cursor %d",
			progress.Processed, progress.Failed, progress.Remaining, progress.Cursor)

		if progress.Done || !*loop {
			break
		}
		select {
		case <-ctx.Done():
			logger.Info(ctx, "🛑 Interrupted, progress is saved")
			return
		case <-time.After(*pause):
		}
	}
	logger.Info(ctx, "✅  Bulk optimisation poll completed")
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")
	database, err := db.NewFromConfig(db.MariaDbConfig{
		DSN:             cfg.MariaDBDSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}
