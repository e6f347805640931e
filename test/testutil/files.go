package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

// photoLike is a gradient with light grain, close enough to a photo for
// every encoder to beat a quality 100 original.
func photoLike(width, height int) *image.RGBA {
	rng := rand.New(rand.NewSource(7))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			grain := uint8(rng.Intn(12))
			img.Set(x, y, color.RGBA{R: uint8(x*255/width) + grain, G: uint8(y*255/height) + grain, B: 128 + grain, A: 255})
		}
	}
	return img
}

// GenerateJPEG encodes a photo-like image at quality 100.
func GenerateJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, photoLike(width, height), &jpeg.Options{Quality: 100}); err != nil {
		t.Fatalf("jpeg encode failed: %v", err)
	}
	return buf.Bytes()
}

// GeneratePNG encodes a photo-like image without compression.
func GeneratePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	if err := enc.Encode(buf, photoLike(width, height)); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}
	return buf.Bytes()
}

// WriteUpload stores content at rel inside the uploads dir.
func WriteUpload(t *testing.T, uploadsDir, rel string, content []byte) string {
	t.Helper()
	p := filepath.Join(uploadsDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, content, 0o644); err != nil {
		t.Fatalf("write upload: %v", err)
	}
	return p
}
