package optimiser

import "context"

type EncodeOptions struct {
	Quality int
	Speed   int
}

// Strategy is one tier of an encode pipeline.
type Strategy interface {
	Name() string
	Available(ctx context.Context) bool
	// Encode reads in and writes the encoded image to out. out's extension
	// names the target format.
	Encode(ctx context.Context, in, out string, opts EncodeOptions) error
}
