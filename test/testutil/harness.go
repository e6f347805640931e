package testutil

import (
	"path/filepath"

	"github.com/fhuszti/image-optimiser-go/internal/config"
	"github.com/fhuszti/image-optimiser-go/internal/model"
)

const BaseURL = "https://example.com/wp-content/uploads"

// Settings returns a configuration rooted at uploadsDir. External encoders
// are disabled so every run takes the built-in library tiers.
func Settings(uploadsDir, redisAddr string) *config.Settings {
	return &config.Settings{
		UploadsDir:     uploadsDir,
		UploadsBaseURL: BaseURL,
		Optimisation:   model.DefaultSettings(),
		RecordsPath:    filepath.Join(uploadsDir, ".records"),
		ExecDisabled:   true,
		BackupDriver:   config.BackupLocal,
		BackupDir:      filepath.Join(uploadsDir, ".backups"),
		BackupBucket:   "originals",
		RedisAddr:      redisAddr,
	}
}
