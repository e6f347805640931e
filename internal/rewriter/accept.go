package rewriter

import (
	"strings"

	"github.com/fhuszti/image-optimiser-go/internal/model"
)

// ParseAccept reads the image formats a client advertises in its Accept header.
func ParseAccept(header string) model.ClientFormats {
	h := strings.ToLower(header)
	return model.ClientFormats{
		WebP: strings.Contains(h, "image/webp"),
		AVIF: strings.Contains(h, "image/avif"),
	}
}
