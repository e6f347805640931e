package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/image-optimiser-go/internal/backup"
	"github.com/fhuszti/image-optimiser-go/internal/cache"
	"github.com/fhuszti/image-optimiser-go/internal/config"
	"github.com/fhuszti/image-optimiser-go/internal/encoder"
	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/optimiser"
	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/fhuszti/image-optimiser-go/internal/records"
	"github.com/fhuszti/image-optimiser-go/internal/runner"
	"github.com/fhuszti/image-optimiser-go/internal/usecase/attachment"
)

// Stack is the optimisation machinery shared by every command.
type Stack struct {
	Detector   *encoder.Detector
	Compressor *optimiser.Compressor
	Converter  *optimiser.Converter
	Records    *records.Store

	closers []func() error
}

// NewStack builds the runner, probe cache, detector, pipelines, backup store
// and records log described by cfg.
func NewStack(ctx context.Context, cfg *config.Settings) (*Stack, error) {
	s := &Stack{}

	r := NewRunner(cfg)
	probeCache, closeCache := NewProbeCache(ctx, cfg)
	s.closers = append(s.closers, closeCache)
	s.Detector = encoder.NewDetector(r, probeCache, cfg.ProbeTTL)

	var store port.BackupStore
	if cfg.Optimisation.PreserveOriginals {
		b, err := NewBackupStore(ctx, cfg)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		store = b
	}

	pipelines := optimiser.NewPipelines(s.Detector, r, optimiser.ChaiWebP{})
	s.Compressor = optimiser.NewCompressor(pipelines, store, cfg.UploadsDir, cfg.Optimisation)
	s.Converter = optimiser.NewConverter(pipelines, cfg.Optimisation)

	recs, err := records.Open(cfg.RecordsPath, cfg.Optimisation.MaxRecords)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("open records log: %w", err)
	}
	s.Records = recs
	s.closers = append(s.closers, recs.Close)

	return s, nil
}

// AttachmentOptimiser wires the stack into the optimise use case. bulk selects
// BULK_QUALITY instead of QUALITY.
func (s *Stack) AttachmentOptimiser(repo port.AttachmentRepository, cfg *config.Settings, bulk bool) port.AttachmentOptimiser {
	settings := cfg.Optimisation
	comp, conv := s.Compressor, s.Converter
	if bulk {
		comp = comp.WithQuality(settings.BulkQuality)
		conv = conv.WithQuality(settings.BulkQuality)
	}
	var log port.RecordLog
	if settings.RecordsEnabled {
		log = s.Records
	}
	return attachment.NewAttachmentOptimiser(repo, comp, conv, log, settings, cfg.UploadsDir)
}

func (s *Stack) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func NewRunner(cfg *config.Settings) runner.Runner {
	if cfg.ExecDisabled {
		return runner.Disabled{}
	}
	return runner.NewExecRunner(cfg.EncoderTimeout)
}

// NewProbeCache shares probe results through Redis when it is configured and
// keeps them in process otherwise.
func NewProbeCache(ctx context.Context, cfg *config.Settings) (port.ProbeCache, func() error) {
	if cfg.RedisAddr == "" {
		logger.Warn(ctx, "⚠️  Redis not configured, encoder probes are cached in memory")
		return cache.NewMemory(), func() error { return nil }
	}
	c := cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
	return c, c.Close
}

func NewBackupStore(ctx context.Context, cfg *config.Settings) (port.BackupStore, error) {
	switch cfg.BackupDriver {
	case config.BackupMinio:
		b, err := backup.NewMinio(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.BackupBucket)
		if err != nil {
			return nil, fmt.Errorf("init minio backups: %w", err)
		}
		return b, nil
	case config.BackupS3:
		return backup.NewS3(cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.BackupBucket), nil
	default:
		b, err := backup.NewLocal(cfg.BackupDir)
		if err != nil {
			return nil, fmt.Errorf("init local backups: %w", err)
		}
		return b, nil
	}
}
