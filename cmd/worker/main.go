package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fhuszti/image-optimiser-go/internal/config"
	"github.com/fhuszti/image-optimiser-go/internal/db"
	workerHandler "github.com/fhuszti/image-optimiser-go/internal/handler/worker"
	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/repository/mariadb"
	"github.com/fhuszti/image-optimiser-go/internal/service"
	"github.com/fhuszti/image-optimiser-go/internal/task"
	"github.com/hibiken/asynq"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	logger.Init()
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	database := initDb(cfg)

	stack, err := service.NewStack(ctx, cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialise optimiser: %v", err)
		os.Exit(1)
	}

	repo := mariadb.NewAttachmentRepository(database.DB)
	optimiseSvc := stack.AttachmentOptimiser(repo, cfg, false)

	// warm the shared probe cache before the first task
	set := stack.Detector.Probe(ctx, false)
	logger.Infof(ctx, "encoders probed: %d known", len(set))

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeOptimiseAttachment, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseOptimiseAttachmentPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.OptimiseAttachmentHandler(ctx, p, optimiseSvc)
	})

	runWorker(ctx, mux, cfg, database, stack)
}

func initDb(cfg *config.Settings) *db.Database {
	ctx := context.Background()
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings, database *db.Database, stack *service.Stack) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{Concurrency: 10})

	// Run server in background
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "❌  Worker failed: %v", err)
			os.Exit(1)
		}
	}()
	logger.Info(ctx, "🚀 Worker started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// stop accepting new tasks and wait for in-flight ones
	srv.Shutdown()

	if err := stack.Close(); err != nil {
		logger.Warnf(ctx, "optimiser close error: %v", err)
	}
	if err := database.Close(); err != nil {
		logger.Warnf(ctx, "DB close error: %v", err)
	}
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
