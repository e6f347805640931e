package renderer

import (
	"context"
	"fmt"
	"hash/crc32"
	"os"
	"strings"

	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/fhuszti/image-optimiser-go/internal/rewriter"
)

type markupRenderer struct {
	rw      *rewriter.Rewriter
	baseURL string
	exists  func(string) bool
}

// compile-time check: *markupRenderer must satisfy port.MarkupRenderer
var _ port.MarkupRenderer = (*markupRenderer)(nil)

// NewMarkupRenderer creates a port.MarkupRenderer on top of rw. baseURL must
// be the one rw was built with.
func NewMarkupRenderer(rw *rewriter.Rewriter, baseURL string) port.MarkupRenderer {
	return &markupRenderer{rw: rw, baseURL: strings.TrimRight(baseURL, "/"), exists: isRegularFile}
}

// RenderMarkup rewrites markup for caps and returns it with a quoted ETag
// derived from the rewritten body.
func (r *markupRenderer) RenderMarkup(ctx context.Context, markup string, caps model.ClientFormats) ([]byte, string) {
	body := []byte(r.rw.Rewrite(markup, caps))
	return body, etagOf(body)
}

// ResolveUpload only serves images. Hidden entries such as the records log
// and the backups dir stay private even though they live under the uploads dir.
func (r *markupRenderer) ResolveUpload(ctx context.Context, relPath string, caps model.ClientFormats) (string, bool) {
	relPath = strings.TrimLeft(relPath, "/")
	if !servable(relPath) {
		return "", false
	}
	ref := r.baseURL + "/" + relPath
	original, ok := r.rw.LocalPath(ref)
	if !ok || !r.exists(original) {
		return "", false
	}

	best := r.rw.RewriteURL(ref, caps)
	if best == ref {
		return original, true
	}
	file, ok := r.rw.LocalPath(best)
	if !ok || !r.exists(file) {
		logger.Debugf(ctx, "sibling %s vanished, serving original", best)
		return original, true
	}
	return file, true
}

func servable(relPath string) bool {
	if _, ok := model.FormatFromPath(relPath); !ok {
		return false
	}
	for _, seg := range strings.Split(relPath, "/") {
		if seg == "" || strings.HasPrefix(seg, ".") {
			return false
		}
	}
	return true
}

func etagOf(body []byte) string {
	return fmt.Sprintf("\"%08x\"", crc32.ChecksumIEEE(body))
}

func isRegularFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
