package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fhuszti/image-optimiser-go/internal/config"
	"github.com/fhuszti/image-optimiser-go/internal/db"
	"github.com/fhuszti/image-optimiser-go/internal/handler/api"
	"github.com/fhuszti/image-optimiser-go/internal/logger"
	cMiddleware "github.com/fhuszti/image-optimiser-go/internal/middleware"
	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/fhuszti/image-optimiser-go/internal/renderer"
	"github.com/fhuszti/image-optimiser-go/internal/repository/mariadb"
	"github.com/fhuszti/image-optimiser-go/internal/rewriter"
	"github.com/fhuszti/image-optimiser-go/internal/service"
	"github.com/fhuszti/image-optimiser-go/internal/task"
	attachmentSvc "github.com/fhuszti/image-optimiser-go/internal/usecase/attachment"
	"github.com/fhuszti/image-optimiser-go/internal/uuid"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)

	stack, err := service.NewStack(ctx, cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialise optimiser: %v", err)
		os.Exit(1)
	}

	repo := mariadb.NewAttachmentRepository(database.DB)
	optimiseSvc := stack.AttachmentOptimiser(repo, cfg, false)
	bulkSvc := attachmentSvc.NewBulkOptimiser(repo, stack.AttachmentOptimiser(repo, cfg, true), stack.Records, cfg.Optimisation.BulkBatchSize)

	var dispatcher port.TaskDispatcher
	if cfg.RedisAddr != "" {
		d := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		defer func() { _ = d.Close() }()
		dispatcher = d
		logger.Info(ctx, "✅  Redis task queue enabled")
	} else {
		dispatcher = task.NewInlineDispatcher(optimiseSvc)
		logger.Warn(ctx, "⚠️  Redis not configured, attachments are optimised inline")
	}

	registrarSvc := attachmentSvc.NewRegistrar(repo, dispatcher, cfg.UploadsDir, uuid.NewUUID)
	uploaderSvc := attachmentSvc.NewUploader(registrarSvc, cfg.UploadsDir, time.Now)
	getterSvc := attachmentSvc.NewGetter(repo)
	recordsSvc := attachmentSvc.NewRecordsLister(stack.Records)

	rw := rewriter.New(cfg.UploadsDir, cfg.UploadsBaseURL, cfg.Optimisation)
	markupRenderer := renderer.NewMarkupRenderer(rw, cfg.UploadsBaseURL)

	r := initRouter(ctx)

	r.Post("/render", api.RenderHandler(markupRenderer))
	r.Get("/uploads/*", api.ServeUploadHandler(markupRenderer))

	r.Group(func(admin chi.Router) {
		admin.Use(cMiddleware.WithJWTAuth(cfg.JWTSecret))

		admin.Post("/attachments", api.UploadAttachmentHandler(uploaderSvc))
		admin.Post("/attachments/register", api.RegisterAttachmentHandler(registrarSvc))
		admin.With(cMiddleware.WithAttachmentID()).
			Get("/attachments/{id}", api.GetAttachmentHandler(getterSvc))
		admin.With(cMiddleware.WithAttachmentID()).
			Post("/attachments/{id}/optimise", api.OptimiseAttachmentHandler(optimiseSvc))

		admin.Post("/bulk/poll", api.BulkPollHandler(bulkSvc))
		admin.Get("/encoders", api.EncodersHandler(stack.Detector))
		admin.Get("/records", api.RecordsHandler(recordsSvc))
	})

	listenRouter(ctx, r, cfg, database, stack)
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}

	return database
}

func initRouter(ctx context.Context) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	return r
}

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, database *db.Database, stack *service.Stack) {
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.ServerPort), Handler: r}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	if err := stack.Close(); err != nil {
		logger.Warnf(ctx, "optimiser close error: %v", err)
	}
	if err := database.Close(); err != nil {
		logger.Errorf(ctx, "DB close error: %v", err)
		os.Exit(1)
	}
}
