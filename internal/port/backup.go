package port

import (
	"context"
	"io"
)

// BackupStore keeps a copy of an original before it is replaced in place.
type BackupStore interface {
	// Save stores r under relPath. An existing backup for relPath is kept.
	Save(ctx context.Context, relPath string, r io.Reader, size int64) error
}
