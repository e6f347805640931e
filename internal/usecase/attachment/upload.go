package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/port"
)

type uploaderSrv struct {
	registrar  port.AttachmentRegistrar
	uploadsDir string
	now        func() time.Time
}

// compile-time check: *uploaderSrv must satisfy port.AttachmentUploader
var _ port.AttachmentUploader = (*uploaderSrv)(nil)

func NewUploader(registrar port.AttachmentRegistrar, uploadsDir string, now func() time.Time) port.AttachmentUploader {
	return &uploaderSrv{registrar: registrar, uploadsDir: uploadsDir, now: now}
}

// Upload streams r to <uploads>/YYYY/MM/<name>, suffixing -1, -2, ... when
// the name is taken, then registers the new file.
func (s *uploaderSrv) Upload(ctx context.Context, filename string, r io.Reader) (*model.Attachment, error) {
	name := sanitiseFilename(filename)
	if f, ok := model.FormatFromPath(name); !ok || !f.IsSource() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}

	now := s.now()
	relDir := path.Join(now.Format("2006"), now.Format("01"))
	dir := filepath.Join(s.uploadsDir, filepath.FromSlash(relDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	f, finalName, err := createUnique(dir, name)
	if err != nil {
		return nil, err
	}
	dest := f.Name()

	n, err := io.Copy(f, io.LimitReader(r, MaxFileSize+1))
	if cErr := f.Close(); cErr != nil && err == nil {
		err = cErr
	}
	if err == nil && n > MaxFileSize {
		err = fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, MaxFileSize)
	}
	if err == nil && n == 0 {
		err = fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	if err != nil {
		if rmErr := os.Remove(dest); rmErr != nil {
			logger.Warnf(ctx, "failed to remove rejected upload %q: %v", dest, rmErr)
		}
		return nil, err
	}

	logger.Infof(ctx, "stored upload %q (%d bytes)", path.Join(relDir, finalName), n)
	return s.registrar.Register(ctx, path.Join(relDir, finalName))
}

// createUnique opens dir/name exclusively, trying name-1, name-2, ... on collision.
func createUnique(dir, name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 1; i < 10000; i++ {
		f, err := os.OpenFile(filepath.Join(dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, candidate, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create %s: %w", candidate, err)
		}
		candidate = stem + "-" + strconv.Itoa(i) + ext
	}
	return nil, "", fmt.Errorf("no free name for %s", name)
}
