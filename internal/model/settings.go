package model

const (
	DefaultQuality    = 82
	DefaultAVIFSpeed  = 6
	DefaultMaxRecords = 500
)

// Settings holds the optimisation toggles. It is built once from configuration
// and handed to each component at construction.
type Settings struct {
	Quality           int  `json:"quality"`
	BulkQuality       int  `json:"bulk_quality"`
	AVIFSpeed         int  `json:"avif_speed"`
	WebPEnabled       bool `json:"webp_enabled"`
	AVIFEnabled       bool `json:"avif_enabled"`
	PreserveOriginals bool `json:"preserve_originals"`
	RecordsEnabled    bool `json:"records_enabled"`
	MaxRecords        int  `json:"max_records"`
	BulkBatchSize     int  `json:"bulk_batch_size"`
}

func DefaultSettings() Settings {
	return Settings{
		Quality:        DefaultQuality,
		BulkQuality:    DefaultQuality,
		AVIFSpeed:      DefaultAVIFSpeed,
		WebPEnabled:    true,
		AVIFEnabled:    true,
		RecordsEnabled: true,
		MaxRecords:     DefaultMaxRecords,
		BulkBatchSize:  5,
	}
}

// Clamp returns a copy of s with every numeric field held to its valid range.
func (s Settings) Clamp() Settings {
	s.Quality = clamp(s.Quality, 0, 100)
	s.BulkQuality = clamp(s.BulkQuality, 0, 100)
	s.AVIFSpeed = clamp(s.AVIFSpeed, 0, 10)
	if s.MaxRecords < 1 {
		s.MaxRecords = 1
	}
	if s.BulkBatchSize < 1 {
		s.BulkBatchSize = 1
	}
	return s
}

// EnabledAlternates returns the alternate formats switched on, most advanced first.
func (s Settings) EnabledAlternates() []Format {
	var out []Format
	for _, f := range AlternateFormats {
		if s.IsEnabled(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s Settings) IsEnabled(f Format) bool {
	switch f {
	case FormatAVIF:
		return s.AVIFEnabled
	case FormatWebP:
		return s.WebPEnabled
	default:
		return false
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
