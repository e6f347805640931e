package attachment

import (
	"context"

	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/port"
)

type bulkOptimiserSrv struct {
	repo      port.AttachmentRepository
	optimiser port.AttachmentOptimiser
	cursor    port.CursorStore
	batchSize int
}

// compile-time check: *bulkOptimiserSrv must satisfy port.BulkOptimiser
var _ port.BulkOptimiser = (*bulkOptimiserSrv)(nil)

func NewBulkOptimiser(repo port.AttachmentRepository, opt port.AttachmentOptimiser, cursor port.CursorStore, batchSize int) port.BulkOptimiser {
	if batchSize < 1 {
		batchSize = 1
	}
	return &bulkOptimiserSrv{repo: repo, optimiser: opt, cursor: cursor, batchSize: batchSize}
}

// Poll optimises the next batch of unoptimised attachments. Attachments that
// stay unoptimised are skipped by moving the cursor past them, so repeated
// polls always make progress. The cursor resets once the backlog is drained.
func (s *bulkOptimiserSrv) Poll(ctx context.Context) (port.BulkProgress, error) {
	offset, err := s.cursor.Cursor(ctx)
	if err != nil {
		return port.BulkProgress{}, err
	}

	batch, err := s.repo.ListUnoptimised(ctx, offset, s.batchSize)
	if err != nil {
		return port.BulkProgress{}, err
	}
	if len(batch) == 0 {
		if err := s.cursor.SetCursor(ctx, 0); err != nil {
			return port.BulkProgress{}, err
		}
		logger.Info(ctx, "no attachments left to optimise")
		return port.BulkProgress{Done: true}, nil
	}

	var progress port.BulkProgress
	for _, a := range batch {
		progress.Processed++
		out, err := s.optimiser.OptimiseAttachment(ctx, a.ID)
		if err != nil {
			logger.Warnf(ctx, "bulk optimisation of %s failed: %v", a.Path, err)
			progress.Failed++
			continue
		}
		if !out.Optimised {
			progress.Failed++
		}
	}

	progress.Cursor = offset + progress.Failed
	total, err := s.repo.CountUnoptimised(ctx)
	if err != nil {
		return port.BulkProgress{}, err
	}
	progress.Remaining = max(total-progress.Cursor, 0)
	if progress.Remaining == 0 {
		progress.Cursor = 0
		progress.Done = true
	}
	if err := s.cursor.SetCursor(ctx, progress.Cursor); err != nil {
		return port.BulkProgress{}, err
	}

	logger.Infof(ctx, "bulk poll processed %d attachments (%d failed, %d remaining)", progress.Processed, progress.Failed, progress.Remaining)
	return progress, nil
}
