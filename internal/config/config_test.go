package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func requiredEnv() map[string]string {
	return map[string]string{
		"UPLOADS_DIR":               "/var/www/uploads",
		"UPLOADS_BASE_URL":          "https://example.com/uploads/",
		"MARIADB_DSN":               "user:pass@tcp(localhost:3306)/db",
		"MARIADB_MAX_OPEN_CONN":     "10",
		"MARIADB_MAX_IDLE_CONNS":    "5",
		"MARIADB_CONN_MAX_LIFETIME": "30",
		"SERVER_PORT":               "8080",
	}
}

func chdirTemp(t *testing.T) {
	t.Helper()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("could not get working directory: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("could not chdir to temp dir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(origDir); err != nil {
			t.Fatalf("could not chdir back to original dir: %v", err)
		}
	})
}

func TestLoad_Success(t *testing.T) {
	chdirTemp(t)
	for k, v := range requiredEnv() {
		t.Setenv(k, v)
	}
	t.Setenv("QUALITY", "70")
	t.Setenv("AVIF_SPEED", "99")
	t.Setenv("AVIF_ENABLED", "false")
	t.Setenv("BACKUP_DRIVER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.UploadsBaseURL != "https://example.com/uploads" {
		t.Errorf("UploadsBaseURL: got %q", cfg.UploadsBaseURL)
	}
	if cfg.MaxOpenConns != 10 || cfg.MaxIdleConns != 5 {
		t.Errorf("pool sizes: got %d/%d", cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != 30*time.Second {
		t.Errorf("ConnMaxLifetime: expected %v, got %v", 30*time.Second, cfg.ConnMaxLifetime)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort: expected %d, got %d", 8080, cfg.ServerPort)
	}

	opt := cfg.Optimisation
	if opt.Quality != 70 {
		t.Errorf("Quality: expected 70, got %d", opt.Quality)
	}
	if opt.BulkQuality != 70 {
		t.Errorf("BulkQuality should follow QUALITY, got %d", opt.BulkQuality)
	}
	if opt.AVIFSpeed != 10 {
		t.Errorf("AVIFSpeed should be clamped to 10, got %d", opt.AVIFSpeed)
	}
	if opt.AVIFEnabled || !opt.WebPEnabled {
		t.Errorf("toggles: avif=%v webp=%v", opt.AVIFEnabled, opt.WebPEnabled)
	}
	if cfg.BackupDriver != BackupLocal {
		t.Errorf("BackupDriver: got %q", cfg.BackupDriver)
	}
	if cfg.RecordsPath != filepath.Join("/var/www/uploads", ".records") {
		t.Errorf("RecordsPath: got %q", cfg.RecordsPath)
	}
	if cfg.ProbeTTL != 30*time.Minute {
		t.Errorf("ProbeTTL: got %v", cfg.ProbeTTL)
	}
}

func TestLoad_InvalidBackupDriver(t *testing.T) {
	chdirTemp(t)
	for k, v := range requiredEnv() {
		t.Setenv(k, v)
	}
	t.Setenv("BACKUP_DRIVER", "ftp")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown backup driver")
	}
}

func TestLoad_MissingRequiredVars(t *testing.T) {
	for _, key := range required {
		t.Run(key, func(t *testing.T) {
			chdirTemp(t)
			for k, v := range requiredEnv() {
				if k == key {
					continue
				}
				t.Setenv(k, v)
			}
			t.Setenv(key, "")
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("could not unset key %s in env: %v", key, err)
			}

			cfg, err := Load()
			if err == nil {
				t.Fatalf("expected error for missing %s, got nil", key)
			}
			if want := key + " is required"; err.Error() != want {
				t.Errorf("error = %q; want %q", err.Error(), want)
			}
			if cfg != nil {
				t.Errorf("expected cfg nil on error, got %#v", cfg)
			}
		})
	}
}
