package mock

import (
	"context"

	"github.com/fhuszti/image-optimiser-go/internal/model"
)

// MockMarkupRenderer implements port.MarkupRenderer for tests.
type MockMarkupRenderer struct {
	Body []byte
	ETag string

	File       string
	Found      bool
	LastCaps   model.ClientFormats
	LastMarkup string
	LastURL    string
}

func (m *MockMarkupRenderer) RenderMarkup(ctx context.Context, markup string, caps model.ClientFormats) ([]byte, string) {
	m.LastMarkup = markup
	m.LastCaps = caps
	return m.Body, m.ETag
}

func (m *MockMarkupRenderer) ResolveUpload(ctx context.Context, relPath string, caps model.ClientFormats) (string, bool) {
	m.LastURL = relPath
	m.LastCaps = caps
	return m.File, m.Found
}
