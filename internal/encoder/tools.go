package encoder

import "strings"

// Tool is one external encoder the service knows how to drive.
type Tool struct {
	Name        string
	VersionArgs []string
	Tag         string
}

func (t Tool) ProbeCommand() string {
	return strings.Join(append([]string{t.Name}, t.VersionArgs...), " ")
}

const (
	JPEGOptim = "jpegoptim"
	PNGQuant  = "pngquant"
	CWebP     = "cwebp"
	AVIFEnc   = "avifenc"
	Magick    = "magick"
)

// KnownTools is the fixed probe table.
var KnownTools = []Tool{
	{Name: JPEGOptim, VersionArgs: []string{"--version"}, Tag: "jpeg"},
	{Name: PNGQuant, VersionArgs: []string{"--version"}, Tag: "png"},
	{Name: CWebP, VersionArgs: []string{"-version"}, Tag: "webp"},
	{Name: AVIFEnc, VersionArgs: []string{"--version"}, Tag: "avif"},
	{Name: Magick, VersionArgs: []string{"-version"}, Tag: "generic"},
}
