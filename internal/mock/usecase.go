package mock

import (
	"context"
	"io"

	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/fhuszti/image-optimiser-go/internal/uuid"
)

// MockRegistrar implements port.AttachmentRegistrar for tests.
type MockRegistrar struct {
	Out    *model.Attachment
	Err    error
	Called bool
	Paths  []string
}

func (m *MockRegistrar) Register(ctx context.Context, relPath string) (*model.Attachment, error) {
	m.Called = true
	m.Paths = append(m.Paths, relPath)
	return m.Out, m.Err
}

// MockUploader implements port.AttachmentUploader for tests.
type MockUploader struct {
	Out      *model.Attachment
	Err      error
	Called   bool
	Filename string
	Body     []byte
}

func (m *MockUploader) Upload(ctx context.Context, filename string, r io.Reader) (*model.Attachment, error) {
	m.Called = true
	m.Filename = filename
	m.Body, _ = io.ReadAll(r)
	return m.Out, m.Err
}

// MockAttachmentGetter implements port.AttachmentGetter for tests.
type MockAttachmentGetter struct {
	Out    *model.Attachment
	Err    error
	Called bool
	ID     uuid.UUID
}

func (m *MockAttachmentGetter) GetAttachment(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	m.Called = true
	m.ID = id
	return m.Out, m.Err
}

// MockAttachmentOptimiser implements port.AttachmentOptimiser for tests.
type MockAttachmentOptimiser struct {
	Out    *model.Attachment
	Err    error
	Called bool
	IDs    []uuid.UUID
}

func (m *MockAttachmentOptimiser) OptimiseAttachment(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	m.Called = true
	m.IDs = append(m.IDs, id)
	return m.Out, m.Err
}

// MockBulkOptimiser implements port.BulkOptimiser for tests.
type MockBulkOptimiser struct {
	Out    port.BulkProgress
	Err    error
	Called bool
}

func (m *MockBulkOptimiser) Poll(ctx context.Context) (port.BulkProgress, error) {
	m.Called = true
	return m.Out, m.Err
}

// MockRecordsLister implements port.RecordsLister for tests.
type MockRecordsLister struct {
	Out   []model.Record
	Err   error
	Limit int
}

func (m *MockRecordsLister) ListRecords(ctx context.Context, limit int) ([]model.Record, error) {
	m.Limit = limit
	return m.Out, m.Err
}
