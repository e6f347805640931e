package task

import (
	"context"
	"errors"

	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/fhuszti/image-optimiser-go/internal/uuid"
	"github.com/hibiken/asynq"
)

type Dispatcher struct {
	client *asynq.Client
}

// compile-time check
var _ port.TaskDispatcher = (*Dispatcher)(nil)

func NewDispatcher(addr, password string) *Dispatcher {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	return &Dispatcher{client: c}
}

func (d *Dispatcher) EnqueueOptimiseAttachment(ctx context.Context, id uuid.UUID) error {
	t, err := NewOptimiseAttachmentTask(id.String())
	if err != nil {
		return err
	}
	_, err = d.client.EnqueueContext(ctx, t)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		logger.Debugf(ctx, "attachment %s already queued", id)
		return nil
	}
	return err
}

func (d *Dispatcher) Close() error {
	return d.client.Close()
}
