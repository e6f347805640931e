package model

// Source is one entry of a responsive image source list.
type Source struct {
	URL   string `json:"url"`
	Width int    `json:"width"`
}

// ClientFormats is what the requesting client advertised it can decode.
type ClientFormats struct {
	WebP bool
	AVIF bool
}

func (c ClientFormats) Accepts(f Format) bool {
	switch f {
	case FormatAVIF:
		return c.AVIF
	case FormatWebP:
		return c.WebP
	default:
		return true
	}
}
