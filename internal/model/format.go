package model

import (
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatGIF  Format = "gif"
	FormatWebP Format = "webp"
	FormatAVIF Format = "avif"
)

// AlternateFormats lists the modern formats generated next to an original,
// most advanced first.
var AlternateFormats = []Format{FormatAVIF, FormatWebP}

// FormatFromPath maps a file extension to its Format. ok is false for
// anything that is not a known raster image.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".jpe":
		return FormatJPEG, true
	case ".png":
		return FormatPNG, true
	case ".gif":
		return FormatGIF, true
	case ".webp":
		return FormatWebP, true
	case ".avif":
		return FormatAVIF, true
	default:
		return "", false
	}
}

// IsSource reports whether f is accepted as an upload to optimise.
func (f Format) IsSource() bool {
	return f == FormatJPEG || f == FormatPNG || f == FormatGIF
}

// IsRewritable reports whether references to f may be swapped for an alternate format.
func (f Format) IsRewritable() bool {
	return f == FormatJPEG || f == FormatPNG
}

func (f Format) Extension() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + string(f)
}

func (f Format) MimeType() string {
	return "image/" + string(f)
}

// SiblingPath returns path with its extension swapped for f's.
func SiblingPath(path string, f Format) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + f.Extension()
}
