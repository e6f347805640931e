package optimiser

import (
	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/runner"
)

// Pipelines holds the ordered tier list for every target format.
type Pipelines struct {
	byFormat map[model.Format][]Strategy
}

func NewPipelines(a Availability, r runner.Runner, webpEnc WebPEncoder) *Pipelines {
	magick := newMagick(a, r)
	return &Pipelines{byFormat: map[model.Format][]Strategy{
		model.FormatJPEG: {newJPEGOptim(a, r), magick, &LibraryStrategy{target: model.FormatJPEG}},
		model.FormatPNG:  {newPNGQuant(a, r), magick, &LibraryStrategy{target: model.FormatPNG}},
		model.FormatWebP: {newCWebP(a, r), magick, &LibraryStrategy{target: model.FormatWebP, webp: webpEnc}},
		model.FormatAVIF: {newAVIFEnc(a, r), magick},
	}}
}

// For returns the tiers for f, best first. GIF and unknown formats have none.
func (p *Pipelines) For(f model.Format) []Strategy {
	return p.byFormat[f]
}
