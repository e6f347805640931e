package port

import (
	"context"

	"github.com/fhuszti/image-optimiser-go/internal/model"
)

// ImageCompressor recompresses an original in place.
type ImageCompressor interface {
	Optimise(ctx context.Context, path string) (model.Result, error)
}

// FormatConverter writes an alternate-format sibling of an original.
type FormatConverter interface {
	ConvertResult(ctx context.Context, path string, target model.Format) (model.Result, error)
}

// EncoderProber reports which external encoders are usable.
type EncoderProber interface {
	Probe(ctx context.Context, force bool) model.EncoderSet
}

// RecordLog is the bounded optimisation history.
type RecordLog interface {
	Append(ctx context.Context, rec model.Record) error
	List(ctx context.Context, limit int) ([]model.Record, error)
}

// CursorStore persists the bulk optimisation offset between polls.
type CursorStore interface {
	Cursor(ctx context.Context) (int, error)
	SetCursor(ctx context.Context, n int) error
}
