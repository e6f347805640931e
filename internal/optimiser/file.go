package optimiser

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fhuszti/image-optimiser-go/internal/model"
)

// inspect checks that path is a non-empty regular file holding a decodable
// image whose extension maps to a known format.
func inspect(path string) (model.Format, os.FileInfo, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil, fmt.Errorf("%w: %s", ErrInputMissing, path)
	}
	if err != nil {
		return "", nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() || info.Size() == 0 {
		return "", nil, fmt.Errorf("%w: %s", ErrInputMissing, path)
	}

	format, ok := model.FormatFromPath(path)
	if !ok {
		return "", nil, fmt.Errorf("%w: extension of %s", ErrUnsupportedSource, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if _, _, err := image.DecodeConfig(f); err != nil {
		return "", nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedSource, path, err)
	}
	return format, info, nil
}

// tempBeside reserves an empty hidden file next to path with the given extension.
func tempBeside(path, ext string) (string, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	f, err := os.CreateTemp(dir, "."+stem+".opt-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		removeQuiet(name)
		return "", err
	}
	return name, nil
}

func removeQuiet(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("failed to remove temp file %q: %v", path, err)
	}
}
