package attachment

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/optimiser"
	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/fhuszti/image-optimiser-go/internal/uuid"
)

type attachmentOptimiserSrv struct {
	repo       port.AttachmentRepository
	compressor port.ImageCompressor
	converter  port.FormatConverter
	records    port.RecordLog
	settings   model.Settings
	uploadsDir string
	now        func() time.Time
}

// compile-time check: *attachmentOptimiserSrv must satisfy port.AttachmentOptimiser
var _ port.AttachmentOptimiser = (*attachmentOptimiserSrv)(nil)

// NewAttachmentOptimiser wires the compression and conversion steps of one
// attachment. records may be nil, in which case nothing is logged.
func NewAttachmentOptimiser(
	repo port.AttachmentRepository,
	compressor port.ImageCompressor,
	converter port.FormatConverter,
	records port.RecordLog,
	settings model.Settings,
	uploadsDir string,
) port.AttachmentOptimiser {
	return &attachmentOptimiserSrv{
		repo:       repo,
		compressor: compressor,
		converter:  converter,
		records:    records,
		settings:   settings,
		uploadsDir: uploadsDir,
		now:        time.Now,
	}
}

// OptimiseAttachment recompresses the original in place, then writes every
// enabled alternate format beside it. Compression failures are stored on the
// attachment and do not stop the alternates.
func (s *attachmentOptimiserSrv) OptimiseAttachment(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	ctx = withAttachment(ctx, id)
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	abs := filepath.Join(s.uploadsDir, filepath.FromSlash(a.Path))
	format, _ := model.FormatFromPath(a.Path)

	convert := true
	res, err := s.compressor.Optimise(ctx, abs)
	switch {
	case err == nil, errors.Is(err, optimiser.ErrPassThrough):
		a.Optimised = true
		a.FailureMessage = nil
		size := res.OutputSize
		a.OptimisedSize = &size
		if res.OriginalSize > 0 {
			a.OriginalSize = res.OriginalSize
		}
		res.Path = a.Path
		s.appendRecord(ctx, res)
	case errors.Is(err, optimiser.ErrInputMissing), errors.Is(err, optimiser.ErrUnsupportedSource):
		logger.Warnf(ctx, "cannot optimise %s: %v", a.Path, err)
		a.FailureMessage = failure(err)
		convert = false
	default:
		logger.Errorf(ctx, "compression of %s failed: %v", a.Path, err)
		a.FailureMessage = failure(err)
		s.appendRecord(ctx, model.NewResult(a.Path, format, "", a.OriginalSize, a.OriginalSize))
	}

	if convert && format.IsRewritable() {
		for _, target := range s.settings.EnabledAlternates() {
			conv, err := s.converter.ConvertResult(ctx, abs, target)
			if err != nil {
				logger.Warnf(ctx, "could not write %s sibling of %s: %v", target, a.Path, err)
				continue
			}
			rel, relErr := filepath.Rel(s.uploadsDir, conv.Path)
			if relErr != nil {
				rel = conv.Path
			}
			a.Formats = withSibling(a.Formats, model.Sibling{
				Format:    target,
				Path:      filepath.ToSlash(rel),
				SizeBytes: conv.OutputSize,
			})
			logger.Infof(ctx, "wrote %s sibling %s (%.2f%% smaller than source)", target, rel, conv.SavedPercent)
			conv.Path = a.Path
			s.appendRecord(ctx, conv)
		}
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed updating attachment: %w", err)
	}
	return a, nil
}

func (s *attachmentOptimiserSrv) appendRecord(ctx context.Context, res model.Result) {
	if s.records == nil || !s.settings.RecordsEnabled {
		return
	}
	if err := s.records.Append(ctx, res.Record(s.now())); err != nil {
		logger.Warnf(ctx, "failed to append optimisation record for %s: %v", res.Path, err)
	}
}

// withSibling replaces any existing entry for the same format.
func withSibling(fs model.Formats, sib model.Sibling) model.Formats {
	out := make(model.Formats, 0, len(fs)+1)
	for _, f := range fs {
		if f.Format != sib.Format {
			out = append(out, f)
		}
	}
	return append(out, sib)
}

func failure(err error) *string {
	msg := err.Error()
	return &msg
}
