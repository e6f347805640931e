package attachment

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/port"
)

type registrarSrv struct {
	repo       port.AttachmentRepository
	tasks      port.TaskDispatcher
	uploadsDir string
	newID      port.UUIDGen
}

// compile-time check: *registrarSrv must satisfy port.AttachmentRegistrar
var _ port.AttachmentRegistrar = (*registrarSrv)(nil)

func NewRegistrar(repo port.AttachmentRepository, tasks port.TaskDispatcher, uploadsDir string, newID port.UUIDGen) port.AttachmentRegistrar {
	return &registrarSrv{repo: repo, tasks: tasks, uploadsDir: uploadsDir, newID: newID}
}

// Register creates the attachment for relPath, or reuses the existing one,
// and dispatches its optimisation unless it is already optimised.
func (s *registrarSrv) Register(ctx context.Context, relPath string) (*model.Attachment, error) {
	rel, err := relativeUploadPath(s.uploadsDir, relPath)
	if err != nil {
		return nil, err
	}
	format, ok := model.FormatFromPath(rel)
	if !ok || !format.IsSource() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, rel)
	}

	info, err := os.Stat(filepath.Join(s.uploadsDir, filepath.FromSlash(rel)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidInput, rel)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", rel, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a file", ErrInvalidInput, rel)
	}

	a, err := s.repo.GetByPath(ctx, rel)
	switch {
	case errors.Is(err, ErrAttachmentNotFound):
		a = &model.Attachment{
			ID:           s.newID(),
			Path:         rel,
			MimeType:     format.MimeType(),
			OriginalSize: info.Size(),
		}
		if err := s.repo.Create(ctx, a); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case a.Optimised:
		logger.Debugf(ctx, "attachment %s already optimised, nothing to dispatch", rel)
		return a, nil
	}

	if err := s.tasks.EnqueueOptimiseAttachment(ctx, a.ID); err != nil {
		return a, fmt.Errorf("dispatch optimisation of %s: %w", rel, err)
	}
	return a, nil
}
