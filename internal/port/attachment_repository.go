package port

import (
	"context"

	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/uuid"
)

type AttachmentRepository interface {
	Create(ctx context.Context, a *model.Attachment) error
	Update(ctx context.Context, a *model.Attachment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Attachment, error)
	GetByPath(ctx context.Context, path string) (*model.Attachment, error)
	ListUnoptimised(ctx context.Context, offset, limit int) ([]model.Attachment, error)
	CountUnoptimised(ctx context.Context) (int, error)
}
