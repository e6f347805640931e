package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/image-optimiser-go/internal/api_context"
	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/fhuszti/image-optimiser-go/internal/task"
	"github.com/fhuszti/image-optimiser-go/internal/usecase/attachment"
	"github.com/fhuszti/image-optimiser-go/internal/uuid"
	"github.com/hibiken/asynq"
)

// OptimiseAttachmentHandler handles an optimise-attachment task. Tasks that
// can never succeed are marked with asynq.SkipRetry.
func OptimiseAttachmentHandler(ctx context.Context, p task.OptimiseAttachmentPayload, svc port.AttachmentOptimiser) error {
	id, err := uuid.Parse(p.AttachmentID)
	if err != nil {
		logger.Errorf(ctx, "❌  Invalid attachment ID %q: %v", p.AttachmentID, err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	ctx = api_context.WithAttachmentID(ctx, id)

	a, err := svc.OptimiseAttachment(ctx, id)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to optimise attachment #%s: %v", id, err)
		if errors.Is(err, attachment.ErrAttachmentNotFound) {
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		return err
	}

	if a.FailureMessage != nil {
		logger.Warnf(ctx, "⚠️  Attachment #%s processed with failure: %s", id, *a.FailureMessage)
		return nil
	}
	logger.Infof(ctx, "✅  Successfully optimised attachment #%s", id)
	return nil
}
