package port

import (
	"context"

	"github.com/fhuszti/image-optimiser-go/internal/uuid"
)

// TaskDispatcher hands attachment work to whoever runs it.
type TaskDispatcher interface {
	EnqueueOptimiseAttachment(ctx context.Context, id uuid.UUID) error
}
