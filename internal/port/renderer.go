package port

import (
	"context"

	"github.com/fhuszti/image-optimiser-go/internal/model"
)

// MarkupRenderer rewrites image references for the requesting client and
// returns the body with an ETag derived from it.
type MarkupRenderer interface {
	RenderMarkup(ctx context.Context, markup string, caps model.ClientFormats) (body []byte, etag string)
	// ResolveUpload maps a slash separated path relative to the uploads dir to
	// the file to serve, preferring an alternate format the client accepts.
	ResolveUpload(ctx context.Context, relPath string, caps model.ClientFormats) (file string, ok bool)
}
