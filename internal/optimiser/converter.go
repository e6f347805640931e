package optimiser

import (
	"context"
	"fmt"
	"os"

	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/model"
)

// Converter writes an alternate-format sibling next to an original.
type Converter struct {
	pipelines *Pipelines
	opts      EncodeOptions
}

func NewConverter(p *Pipelines, settings model.Settings) *Converter {
	return &Converter{
		pipelines: p,
		opts:      EncodeOptions{Quality: settings.Quality, Speed: settings.AVIFSpeed},
	}
}

func (c *Converter) WithQuality(q int) *Converter {
	cp := *c
	cp.opts.Quality = q
	return &cp
}

// Convert encodes path into target and returns the sibling's path. The
// source is never written.
func (c *Converter) Convert(ctx context.Context, path string, target model.Format) (string, error) {
	res, err := c.ConvertResult(ctx, path, target)
	if err != nil {
		return "", err
	}
	return res.Path, nil
}

// ConvertResult is Convert with the sibling's size measured against the source.
func (c *Converter) ConvertResult(ctx context.Context, path string, target model.Format) (model.Result, error) {
	format, info, err := inspect(path)
	if err != nil {
		return model.Result{}, err
	}
	if !format.IsRewritable() {
		return model.Result{}, fmt.Errorf("%w: cannot convert %s", ErrUnsupportedSource, format)
	}

	out := model.SiblingPath(path, target)
	tiers := c.pipelines.For(target)
	for _, s := range tiers {
		if !s.Available(ctx) {
			continue
		}
		tmp, err := tempBeside(path, target.Extension())
		if err != nil {
			return model.Result{}, err
		}
		if err := s.Encode(ctx, path, tmp, c.opts); err != nil {
			logger.Debugf(ctx, "tier %s failed converting %s to %s: %v", s.Name(), path, target, err)
			removeQuiet(tmp)
			continue
		}
		outInfo, err := os.Stat(tmp)
		if err != nil || outInfo.Size() == 0 {
			removeQuiet(tmp)
			continue
		}
		if outInfo.Size() >= info.Size() {
			logger.Infof(ctx, "tier %s made a %s of %s no smaller than its source (%d >= %d bytes), discarded",
				s.Name(), target, path, outInfo.Size(), info.Size())
			removeQuiet(tmp)
			continue
		}
		if err := os.Rename(tmp, out); err != nil {
			removeQuiet(tmp)
			return model.Result{}, fmt.Errorf("move %s into place: %w", out, err)
		}
		return model.NewResult(out, target, s.Name(), info.Size(), outInfo.Size()), nil
	}
	return model.Result{}, fmt.Errorf("%w: %s for %s", ErrFormatUnavailable, target, path)
}
