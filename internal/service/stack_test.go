package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fhuszti/image-optimiser-go/internal/backup"
	"github.com/fhuszti/image-optimiser-go/internal/cache"
	"github.com/fhuszti/image-optimiser-go/internal/config"
	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/runner"
)

func testSettings(t *testing.T) *config.Settings {
	dir := t.TempDir()
	return &config.Settings{
		UploadsDir:   dir,
		Optimisation: model.DefaultSettings(),
		RecordsPath:  filepath.Join(dir, ".records"),
		ProbeTTL:     time.Minute,
		ExecDisabled: true,
		BackupDriver: config.BackupLocal,
		BackupDir:    filepath.Join(dir, ".backups"),
	}
}

func TestNewRunner(t *testing.T) {
	cfg := testSettings(t)
	if _, ok := NewRunner(cfg).(runner.Disabled); !ok {
		t.Error("expected the disabled runner")
	}
	cfg.ExecDisabled = false
	if _, ok := NewRunner(cfg).(*runner.ExecRunner); !ok {
		t.Error("expected the exec runner")
	}
}

func TestNewProbeCache(t *testing.T) {
	cfg := testSettings(t)
	c, closeFn := NewProbeCache(context.Background(), cfg)
	if _, ok := c.(*cache.Memory); !ok {
		t.Errorf("expected memory cache, got %T", c)
	}
	_ = closeFn()

	mr := miniredis.RunT(t)
	cfg.RedisAddr = mr.Addr()
	c, closeFn = NewProbeCache(context.Background(), cfg)
	defer func() { _ = closeFn() }()
	if _, ok := c.(*cache.Cache); !ok {
		t.Errorf("expected redis cache, got %T", c)
	}
}

func TestNewBackupStore(t *testing.T) {
	cfg := testSettings(t)
	b, err := NewBackupStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := b.(*backup.Local); !ok {
		t.Errorf("expected local store, got %T", b)
	}

	cfg.BackupDriver = config.BackupS3
	cfg.S3Region = "eu-west-1"
	b, err = NewBackupStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := b.(*backup.S3); !ok {
		t.Errorf("expected s3 store, got %T", b)
	}
}

func TestNewStack_NoTools(t *testing.T) {
	cfg := testSettings(t)
	cfg.Optimisation.PreserveOriginals = true

	s, err := NewStack(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = s.Close() }()

	set := s.Detector.Probe(context.Background(), false)
	for name, d := range set {
		if d.Available {
			t.Errorf("%s must be unavailable with exec disabled", name)
		}
	}
	if s.AttachmentOptimiser(nil, cfg, false) == nil || s.AttachmentOptimiser(nil, cfg, true) == nil {
		t.Error("expected optimiser use cases")
	}
	if _, err := s.Records.Cursor(context.Background()); err != nil {
		t.Errorf("records log unusable: %v", err)
	}
}
