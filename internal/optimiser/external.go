package optimiser

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fhuszti/image-optimiser-go/internal/encoder"
	"github.com/fhuszti/image-optimiser-go/internal/runner"
)

type argBuilder func(in, out string, opts EncodeOptions) []string

// ExternalStrategy drives a command-line encoder.
type ExternalStrategy struct {
	tool   string
	args   argBuilder
	stdout bool

	avail  Availability
	runner runner.Runner
}

func (s *ExternalStrategy) Name() string { return s.tool }

func (s *ExternalStrategy) Available(ctx context.Context) bool {
	return s.avail.Available(ctx, s.tool)
}

func (s *ExternalStrategy) Encode(ctx context.Context, in, out string, opts EncodeOptions) error {
	args := s.args(in, out, opts)

	var (
		res runner.Result
		err error
	)
	if s.stdout {
		res, err = s.runner.RunToFile(ctx, out, s.tool, args...)
	} else {
		res, err = s.runner.Run(ctx, s.tool, args...)
	}
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%s exited with %d: %s", s.tool, res.ExitCode, res.FirstLine())
	}
	info, err := os.Stat(out)
	if err != nil {
		return fmt.Errorf("%s produced no output: %w", s.tool, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%s produced an empty file", s.tool)
	}
	return nil
}

func q(opts EncodeOptions) string { return strconv.Itoa(opts.Quality) }

func newJPEGOptim(a Availability, r runner.Runner) *ExternalStrategy {
	return &ExternalStrategy{
		tool:   encoder.JPEGOptim,
		stdout: true,
		avail:  a,
		runner: r,
		args: func(in, _ string, o EncodeOptions) []string {
			return []string{"-m" + q(o), "--strip-all", "--stdout", in}
		},
	}
}

func newPNGQuant(a Availability, r runner.Runner) *ExternalStrategy {
	return &ExternalStrategy{
		tool:   encoder.PNGQuant,
		avail:  a,
		runner: r,
		args: func(in, out string, o EncodeOptions) []string {
			return []string{"--quality=0-" + q(o), "--force", "--output", out, in}
		},
	}
}

func newCWebP(a Availability, r runner.Runner) *ExternalStrategy {
	return &ExternalStrategy{
		tool:   encoder.CWebP,
		avail:  a,
		runner: r,
		args: func(in, out string, o EncodeOptions) []string {
			return []string{"-q", q(o), "-m", "6", in, "-o", out}
		},
	}
}

func newAVIFEnc(a Availability, r runner.Runner) *ExternalStrategy {
	return &ExternalStrategy{
		tool:   encoder.AVIFEnc,
		avail:  a,
		runner: r,
		args: func(in, out string, o EncodeOptions) []string {
			return []string{"-q", q(o), "--speed", strconv.Itoa(o.Speed), in, out}
		},
	}
}

// newMagick is the generic tier; magick picks the output format from out's extension.
func newMagick(a Availability, r runner.Runner) *ExternalStrategy {
	return &ExternalStrategy{
		tool:   encoder.Magick,
		avail:  a,
		runner: r,
		args: func(in, out string, o EncodeOptions) []string {
			return []string{in, "-quality", q(o), out}
		},
	}
}
