package optimiser

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/fhuszti/image-optimiser-go/internal/model"
	_ "golang.org/x/image/webp"
)

const LibraryTier = "library"

var errNoLibraryEncoder = errors.New("no built-in encoder for format")

// LibraryStrategy is the in-process last resort.
type LibraryStrategy struct {
	target model.Format
	webp   WebPEncoder
}

func (s *LibraryStrategy) Name() string { return LibraryTier }

func (s *LibraryStrategy) Available(context.Context) bool {
	switch s.target {
	case model.FormatJPEG, model.FormatPNG:
		return true
	case model.FormatWebP:
		return s.webp != nil
	default:
		return false
	}
}

func (s *LibraryStrategy) Encode(ctx context.Context, in, out string, opts EncodeOptions) error {
	if !s.Available(ctx) {
		return fmt.Errorf("%w %s", errNoLibraryEncoder, s.target)
	}
	img, err := imaging.Open(in, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode %s: %w", in, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	encErr := s.encode(img, f, opts)
	if cErr := f.Close(); cErr != nil && encErr == nil {
		encErr = cErr
	}
	if encErr != nil {
		return fmt.Errorf("encode %s: %w", s.target, encErr)
	}
	return nil
}

func (s *LibraryStrategy) encode(img image.Image, f *os.File, opts EncodeOptions) error {
	switch s.target {
	case model.FormatJPEG:
		return imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(opts.Quality))
	case model.FormatPNG:
		return imaging.Encode(f, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case model.FormatWebP:
		return s.webp.Encode(img, opts.Quality, f)
	}
	return errNoLibraryEncoder
}
