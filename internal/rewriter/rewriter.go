package rewriter

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fhuszti/image-optimiser-go/internal/model"
)

var (
	imgTagRe  = regexp.MustCompile(`(?is)<img\b[^>]*>`)
	imgAttrRe = regexp.MustCompile(`(?is)(\s(?:src|srcset)\s*=\s*)("[^"]*"|'[^']*')`)
)

// Rewriter swaps references to local JPEG/PNG uploads for their AVIF or WebP
// sibling when the client can decode it and the sibling exists on disk.
type Rewriter struct {
	uploadsDir string
	baseURL    string
	basePath   string
	webp       bool
	avif       bool
	exists     func(string) bool
}

func New(uploadsDir, baseURL string, settings model.Settings) *Rewriter {
	baseURL = strings.TrimRight(baseURL, "/")
	basePath := ""
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		basePath = strings.TrimRight(u.Path, "/")
	}
	return &Rewriter{
		uploadsDir: uploadsDir,
		baseURL:    baseURL,
		basePath:   basePath,
		webp:       settings.WebPEnabled,
		avif:       settings.AVIFEnabled,
		exists:     fileExists,
	}
}

// WithExists replaces the sibling lookup.
func (r *Rewriter) WithExists(fn func(string) bool) *Rewriter {
	cp := *r
	cp.exists = fn
	return &cp
}

// BestFormat picks AVIF over WebP. ok is false when the client and site
// share neither.
func (r *Rewriter) BestFormat(caps model.ClientFormats) (model.Format, bool) {
	if r.avif && caps.AVIF {
		return model.FormatAVIF, true
	}
	if r.webp && caps.WebP {
		return model.FormatWebP, true
	}
	return "", false
}

// Rewrite rewrites src and srcset inside every <img> tag of markup.
func (r *Rewriter) Rewrite(markup string, caps model.ClientFormats) string {
	if _, ok := r.BestFormat(caps); !ok {
		return markup
	}
	return imgTagRe.ReplaceAllStringFunc(markup, func(tag string) string {
		return imgAttrRe.ReplaceAllStringFunc(tag, func(attr string) string {
			m := imgAttrRe.FindStringSubmatch(attr)
			prefix, quoted := m[1], m[2]
			quote, value := quoted[:1], quoted[1:len(quoted)-1]
			if strings.Contains(strings.ToLower(prefix), "srcset") {
				value = r.RewriteSrcset(value, caps)
			} else {
				value = r.RewriteURL(value, caps)
			}
			return prefix + quote + value + quote
		})
	})
}

// RewriteSrcset rewrites every "url descriptor" candidate of a srcset value.
func (r *Rewriter) RewriteSrcset(srcset string, caps model.ClientFormats) string {
	parts := strings.Split(srcset, ",")
	for i, part := range parts {
		trimmed := strings.TrimLeft(part, " \t\n\r\f")
		lead := part[:len(part)-len(trimmed)]
		end := strings.IndexAny(trimmed, " \t\n\r\f")
		if end < 0 {
			end = len(trimmed)
		}
		parts[i] = lead + r.RewriteURL(trimmed[:end], caps) + trimmed[end:]
	}
	return strings.Join(parts, ",")
}

func (r *Rewriter) RewriteSources(sources []model.Source, caps model.ClientFormats) []model.Source {
	out := make([]model.Source, len(sources))
	for i, s := range sources {
		out[i] = model.Source{URL: r.RewriteURL(s.URL, caps), Width: s.Width}
	}
	return out
}

// RewriteURL returns ref pointing at the best sibling, or ref unchanged.
func (r *Rewriter) RewriteURL(ref string, caps model.ClientFormats) string {
	best, ok := r.BestFormat(caps)
	if !ok {
		return ref
	}

	cut := len(ref)
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		cut = i
	}
	p, suffix := ref[:cut], ref[cut:]

	f, ok := model.FormatFromPath(p)
	if !ok || !f.IsRewritable() {
		return ref
	}

	local, ok := r.LocalPath(p)
	if !ok {
		return ref
	}
	if !r.exists(model.SiblingPath(local, best)) {
		return ref
	}
	return strings.TrimSuffix(p, path.Ext(p)) + best.Extension() + suffix
}

// LocalPath maps a URL under the uploads base URL to a file under the
// uploads dir. ok is false for external URLs and paths escaping the dir.
func (r *Rewriter) LocalPath(ref string) (string, bool) {
	var rel string
	switch {
	case r.baseURL != "" && strings.HasPrefix(ref, r.baseURL+"/"):
		rel = ref[len(r.baseURL)+1:]
	case r.basePath != "" && strings.HasPrefix(ref, r.basePath+"/"):
		rel = ref[len(r.basePath)+1:]
	default:
		return "", false
	}
	rel, err := url.PathUnescape(rel)
	if err != nil {
		return "", false
	}
	rel = filepath.FromSlash(rel)
	if !filepath.IsLocal(rel) {
		return "", false
	}
	return filepath.Join(r.uploadsDir, rel), true
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
