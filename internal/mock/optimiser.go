package mock

import (
	"context"

	"github.com/fhuszti/image-optimiser-go/internal/model"
)

// MockCompressor implements port.ImageCompressor for tests.
type MockCompressor struct {
	Out    model.Result
	Err    error
	Called bool
	Path   string
}

func (m *MockCompressor) Optimise(ctx context.Context, path string) (model.Result, error) {
	m.Called = true
	m.Path = path
	return m.Out, m.Err
}

// MockConverter implements port.FormatConverter for tests. Results are keyed
// by target format; a missing key yields Err.
type MockConverter struct {
	Out     map[model.Format]model.Result
	Err     error
	Targets []model.Format
}

func (m *MockConverter) ConvertResult(ctx context.Context, path string, target model.Format) (model.Result, error) {
	m.Targets = append(m.Targets, target)
	if res, ok := m.Out[target]; ok {
		return res, nil
	}
	return model.Result{}, m.Err
}

// MockProber implements port.EncoderProber for tests.
type MockProber struct {
	Set    model.EncoderSet
	Forced bool
}

func (m *MockProber) Probe(ctx context.Context, force bool) model.EncoderSet {
	m.Forced = force
	return m.Set
}

// MockRecordLog implements port.RecordLog and port.CursorStore for tests.
type MockRecordLog struct {
	Records   []model.Record
	AppendErr error
	ListErr   error
	ListLimit int

	CursorVal    int
	CursorErr    error
	SetCursorErr error
	CursorSets   []int
}

func (m *MockRecordLog) Append(ctx context.Context, rec model.Record) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.Records = append(m.Records, rec)
	return nil
}

func (m *MockRecordLog) List(ctx context.Context, limit int) ([]model.Record, error) {
	m.ListLimit = limit
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Records, nil
}

func (m *MockRecordLog) Cursor(ctx context.Context) (int, error) {
	return m.CursorVal, m.CursorErr
}

func (m *MockRecordLog) SetCursor(ctx context.Context, n int) error {
	if m.SetCursorErr != nil {
		return m.SetCursorErr
	}
	m.CursorVal = n
	m.CursorSets = append(m.CursorSets, n)
	return nil
}
