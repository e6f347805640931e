package optimiser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/port"
)

// Compressor shrinks an original in place.
type Compressor struct {
	pipelines *Pipelines
	backup    port.BackupStore
	root      string
	preserve  bool
	opts      EncodeOptions
}

// NewCompressor builds a compressor for files under root. When preserve is set
// every original is handed to backup before it is overwritten.
func NewCompressor(p *Pipelines, backup port.BackupStore, root string, settings model.Settings) *Compressor {
	return &Compressor{
		pipelines: p,
		backup:    backup,
		root:      root,
		preserve:  settings.PreserveOriginals && backup != nil,
		opts:      EncodeOptions{Quality: settings.Quality, Speed: settings.AVIFSpeed},
	}
}

// WithQuality returns a copy encoding at quality q.
func (c *Compressor) WithQuality(q int) *Compressor {
	cp := *c
	cp.opts.Quality = q
	return &cp
}

// Optimise recompresses path with the first tier that succeeds. The original
// is only replaced by a strictly smaller, non-empty output.
func (c *Compressor) Optimise(ctx context.Context, path string) (model.Result, error) {
	format, info, err := inspect(path)
	if err != nil {
		return model.Result{}, err
	}
	if !format.IsSource() {
		return model.Result{}, fmt.Errorf("%w: %s is not an upload format", ErrUnsupportedSource, format)
	}
	size := info.Size()
	if format == model.FormatGIF {
		return model.NewResult(path, format, "", size, size), ErrPassThrough
	}

	tmp, tier, err := c.runTiers(ctx, path, format)
	if err != nil {
		return model.Result{}, err
	}
	defer removeQuiet(tmp)

	out, err := os.Stat(tmp)
	if err != nil {
		return model.Result{}, fmt.Errorf("stat encoded output: %w", err)
	}
	if out.Size() == 0 || out.Size() >= size {
		logger.Debugf(ctx, "%s output for %s is not smaller (%d >= %d), keeping original", tier, path, out.Size(), size)
		return model.NewResult(path, format, tier, size, size), nil
	}

	if c.preserve {
		if err := c.backupOriginal(ctx, path, size); err != nil {
			return model.Result{}, err
		}
	}

	if err := os.Chmod(tmp, info.Mode().Perm()); err != nil {
		return model.Result{}, fmt.Errorf("chmod encoded output: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return model.Result{}, fmt.Errorf("replace %s: %w", path, err)
	}

	return model.NewResult(path, format, tier, size, out.Size()), nil
}

// runTiers returns the temp file written by the first successful tier.
func (c *Compressor) runTiers(ctx context.Context, path string, format model.Format) (string, string, error) {
	for _, s := range c.pipelines.For(format) {
		if !s.Available(ctx) {
			continue
		}
		tmp, err := tempBeside(path, filepath.Ext(path))
		if err != nil {
			return "", "", err
		}
		if err := s.Encode(ctx, path, tmp, c.opts); err != nil {
			logger.Debugf(ctx, "tier %s failed for %s: %v", s.Name(), path, err)
			removeQuiet(tmp)
			continue
		}
		return tmp, s.Name(), nil
	}
	return "", "", fmt.Errorf("%w: %s", ErrNoTierSucceeded, path)
}

func (c *Compressor) backupOriginal(ctx context.Context, path string, size int64) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open original for backup: %w", err)
	}
	defer f.Close()

	if err := c.backup.Save(ctx, relativeTo(c.root, path), f, size); err != nil {
		return fmt.Errorf("backup original %s: %w", path, err)
	}
	return nil
}

func relativeTo(root, path string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && filepath.IsLocal(rel) {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.Base(path)
}
