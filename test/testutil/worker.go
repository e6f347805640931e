package testutil

import (
	"context"
	"database/sql"

	"github.com/fhuszti/image-optimiser-go/internal/config"
	workerHandler "github.com/fhuszti/image-optimiser-go/internal/handler/worker"
	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/repository/mariadb"
	"github.com/fhuszti/image-optimiser-go/internal/service"
	"github.com/fhuszti/image-optimiser-go/internal/task"
	"github.com/hibiken/asynq"
)

// StartWorker starts an asynq worker processing optimisation tasks against
// database and cfg. The returned function shuts it down and releases the stack.
func StartWorker(database *sql.DB, cfg *config.Settings) (*service.Stack, func(), error) {
	ctx := context.Background()
	stack, err := service.NewStack(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	repo := mariadb.NewAttachmentRepository(database)
	optimiseSvc := stack.AttachmentOptimiser(repo, cfg, false)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeOptimiseAttachment, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseOptimiseAttachmentPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.OptimiseAttachmentHandler(ctx, p, optimiseSvc)
	})

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, asynq.Config{Concurrency: 5})
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "worker stopped: %v", err)
		}
	}()

	return stack, func() {
		srv.Shutdown()
		_ = stack.Close()
	}, nil
}
