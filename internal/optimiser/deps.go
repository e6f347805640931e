package optimiser

import (
	"context"
	"image"
	"io"

	"github.com/chai2010/webp"
)

// Availability answers whether an external tool passed the capability probe.
type Availability interface {
	Available(ctx context.Context, name string) bool
}

type WebPEncoder interface {
	Encode(img image.Image, quality int, w io.Writer) error
}

// ChaiWebP encodes WebP in-process through libwebp.
type ChaiWebP struct{}

func (ChaiWebP) Encode(img image.Image, quality int, w io.Writer) error {
	return webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
}
