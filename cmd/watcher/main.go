package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fhuszti/image-optimiser-go/internal/config"
	"github.com/fhuszti/image-optimiser-go/internal/db"
	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/fhuszti/image-optimiser-go/internal/repository/mariadb"
	"github.com/fhuszti/image-optimiser-go/internal/service"
	"github.com/fhuszti/image-optimiser-go/internal/task"
	attachmentSvc "github.com/fhuszti/image-optimiser-go/internal/usecase/attachment"
	"github.com/fhuszti/image-optimiser-go/internal/uuid"
	"github.com/fhuszti/image-optimiser-go/internal/watcher"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	logger.Init()

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()
	repo := mariadb.NewAttachmentRepository(database.DB)

	var dispatcher port.TaskDispatcher
	if cfg.RedisAddr != "" {
		d := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		defer func() { _ = d.Close() }()
		dispatcher = d
	} else {
		stack, err := service.NewStack(ctx, cfg)
		if err != nil {
			logger.Errorf(ctx, "❌  Failed to initialise optimiser: %v", err)
			os.Exit(1)
		}
		defer func() { _ = stack.Close() }()
		dispatcher = task.NewInlineDispatcher(stack.AttachmentOptimiser(repo, cfg, false))
		logger.Warn(ctx, "⚠️  Redis not configured, new uploads are optimised inline")
	}

	registrar := attachmentSvc.NewRegistrar(repo, dispatcher, cfg.UploadsDir, uuid.NewUUID)
	w, err := watcher.New(cfg.UploadsDir, registrar, watcher.DefaultDebounce)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to watch %s: %v", cfg.UploadsDir, err)
		os.Exit(1)
	}

	logger.Infof(ctx, "🚀 Watching %s for new uploads", cfg.UploadsDir)
	if err := w.Run(ctx); err != nil {
		logger.Errorf(ctx, "❌  Watcher failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "🛑 Watcher stopped")
}
