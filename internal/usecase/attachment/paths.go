package attachment

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// relativeUploadPath normalises p, relative to or inside root, into a slash
// separated path under root.
func relativeUploadPath(root, p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidInput)
	}
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return "", fmt.Errorf("%w: %q is outside the uploads dir", ErrInvalidInput, p)
		}
		p = rel
	}
	p = filepath.Clean(filepath.FromSlash(p))
	if !filepath.IsLocal(p) {
		return "", fmt.Errorf("%w: %q is outside the uploads dir", ErrInvalidInput, p)
	}
	return filepath.ToSlash(p), nil
}

// sanitiseFilename keeps the base name and replaces anything unusual with '-'.
func sanitiseFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	ext := strings.ToLower(filepath.Ext(name))
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	stem = strings.Trim(unsafeNameChars.ReplaceAllString(stem, "-"), "-.")
	if stem == "" {
		stem = "upload"
	}
	return stem + ext
}
