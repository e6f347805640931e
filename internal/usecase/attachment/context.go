package attachment

import (
	"context"

	apicontext "github.com/fhuszti/image-optimiser-go/internal/api_context"
	"github.com/fhuszti/image-optimiser-go/internal/uuid"
)

// withAttachment tags ctx so every log line carries the attachment id.
func withAttachment(ctx context.Context, id uuid.UUID) context.Context {
	if _, ok := apicontext.AttachmentIDFromContext(ctx); ok {
		return ctx
	}
	return apicontext.WithAttachmentID(ctx, id)
}
