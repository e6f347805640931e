package task

import (
	"context"
	"sync"

	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/fhuszti/image-optimiser-go/internal/uuid"
)

// InlineDispatcher optimises attachments synchronously in the caller's
// process. It is used when no Redis queue is configured. An attachment
// already being optimised by this dispatcher is not started again.
type InlineDispatcher struct {
	optimiser port.AttachmentOptimiser

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

var _ port.TaskDispatcher = (*InlineDispatcher)(nil)

func NewInlineDispatcher(opt port.AttachmentOptimiser) *InlineDispatcher {
	return &InlineDispatcher{optimiser: opt, inFlight: make(map[uuid.UUID]struct{})}
}

// SetOptimiser completes the wiring when the optimiser is built after the dispatcher.
func (d *InlineDispatcher) SetOptimiser(opt port.AttachmentOptimiser) {
	d.optimiser = opt
}

func (d *InlineDispatcher) EnqueueOptimiseAttachment(ctx context.Context, id uuid.UUID) error {
	if d.optimiser == nil {
		logger.Warnf(ctx, "no optimiser wired, skipping attachment %s", id)
		return nil
	}
	if !d.claim(id) {
		logger.Debugf(ctx, "attachment %s already being optimised", id)
		return nil
	}
	defer d.release(id)

	_, err := d.optimiser.OptimiseAttachment(ctx, id)
	return err
}

func (d *InlineDispatcher) claim(id uuid.UUID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.inFlight[id]; busy {
		return false
	}
	d.inFlight[id] = struct{}{}
	return true
}

func (d *InlineDispatcher) release(id uuid.UUID) {
	d.mu.Lock()
	delete(d.inFlight, id)
	d.mu.Unlock()
}
