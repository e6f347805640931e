package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/fhuszti/image-optimiser-go/internal/port"
)

// Local mirrors originals under a directory on the same host.
type Local struct {
	dir string
}

// compile-time check: *Local must satisfy port.BackupStore
var _ port.BackupStore = (*Local)(nil)

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Save(_ context.Context, relPath string, r io.Reader, _ int64) error {
	rel := filepath.FromSlash(relPath)
	if !filepath.IsLocal(rel) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, relPath)
	}
	dest := filepath.Join(l.dir, rel)
	if _, err := os.Stat(dest); err == nil {
		log.Printf("backup of %q already exists, keeping the first one", relPath)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".backup-*")
	if err != nil {
		return fmt.Errorf("create backup temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	// Link refuses to replace an existing file, so a concurrent first backup wins.
	if err := os.Link(tmp.Name(), dest); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("move backup into place: %w", err)
	}
	log.Printf("backed up original %q", relPath)
	return nil
}
