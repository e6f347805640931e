package mock

import (
	"context"
	"errors"

	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/uuid"
)

// ErrNotFound is returned by MockAttachmentRepo lookups that match nothing
// and have no explicit error configured.
var ErrNotFound = errors.New("mock: attachment not found")

// MockAttachmentRepo implements port.AttachmentRepository for tests.
type MockAttachmentRepo struct {
	Record *model.Attachment
	ByPath *model.Attachment
	List   []model.Attachment
	Count  int

	GetErr    error
	PathErr   error
	CreateErr error
	UpdateErr error
	ListErr   error
	CountErr  error

	GetCalled  bool
	Created    *model.Attachment
	Updated    []*model.Attachment
	ListOffset int
	ListLimit  int
}

func (m *MockAttachmentRepo) Create(ctx context.Context, a *model.Attachment) error {
	m.Created = a
	return m.CreateErr
}

func (m *MockAttachmentRepo) Update(ctx context.Context, a *model.Attachment) error {
	m.Updated = append(m.Updated, a)
	return m.UpdateErr
}

func (m *MockAttachmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Record == nil {
		for i := range m.List {
			if m.List[i].ID == id {
				return &m.List[i], nil
			}
		}
		return nil, ErrNotFound
	}
	return m.Record, nil
}

func (m *MockAttachmentRepo) GetByPath(ctx context.Context, path string) (*model.Attachment, error) {
	if m.PathErr != nil {
		return nil, m.PathErr
	}
	if m.ByPath == nil {
		return nil, ErrNotFound
	}
	return m.ByPath, nil
}

func (m *MockAttachmentRepo) ListUnoptimised(ctx context.Context, offset, limit int) ([]model.Attachment, error) {
	m.ListOffset, m.ListLimit = offset, limit
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if offset >= len(m.List) {
		return nil, nil
	}
	end := min(offset+limit, len(m.List))
	return m.List[offset:end], nil
}

func (m *MockAttachmentRepo) CountUnoptimised(ctx context.Context) (int, error) {
	return m.Count, m.CountErr
}
