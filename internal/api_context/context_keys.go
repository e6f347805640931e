package api_context

import (
	"context"

	"github.com/fhuszti/image-optimiser-go/internal/uuid"
)

type ctxKey string

const (
	AttachmentIDKey ctxKey = "attachmentID"
	AdminSubjectKey ctxKey = "adminSubject"
)

func WithAttachmentID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, AttachmentIDKey, id)
}

func AttachmentIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(AttachmentIDKey).(uuid.UUID)
	return id, ok
}

func AdminSubjectFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(AdminSubjectKey).(string)
	return sub, ok
}
