package port

import (
	"context"
	"io"

	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/uuid"
)

type UUIDGen func() uuid.UUID

// AttachmentRegistrar records an uploaded file and queues its optimisation.
type AttachmentRegistrar interface {
	Register(ctx context.Context, relPath string) (*model.Attachment, error)
}

// AttachmentUploader stores a new upload under the dated uploads tree and registers it.
type AttachmentUploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*model.Attachment, error)
}

// AttachmentGetter returns the stored metadata of an attachment.
type AttachmentGetter interface {
	GetAttachment(ctx context.Context, id uuid.UUID) (*model.Attachment, error)
}

// AttachmentOptimiser compresses an attachment and generates its alternate formats.
type AttachmentOptimiser interface {
	OptimiseAttachment(ctx context.Context, id uuid.UUID) (*model.Attachment, error)
}

// BulkOptimiser works through unoptimised attachments a batch per call.
type BulkOptimiser interface {
	Poll(ctx context.Context) (BulkProgress, error)
}
type BulkProgress struct {
	Processed int  `json:"processed"`
	Failed    int  `json:"failed"`
	Remaining int  `json:"remaining"`
	Cursor    int  `json:"cursor"`
	Done      bool `json:"done"`
}

// RecordsLister returns the newest optimisation records.
type RecordsLister interface {
	ListRecords(ctx context.Context, limit int) ([]model.Record, error)
}
