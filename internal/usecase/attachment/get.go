package attachment

import (
	"context"

	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/fhuszti/image-optimiser-go/internal/uuid"
)

type getterSrv struct {
	repo port.AttachmentRepository
}

func NewGetter(repo port.AttachmentRepository) port.AttachmentGetter {
	return &getterSrv{repo: repo}
}

func (s *getterSrv) GetAttachment(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	return s.repo.GetByID(ctx, id)
}
