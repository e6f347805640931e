package model

import (
	"math"
	"time"
)

// Record is one entry of the optimisation log.
type Record struct {
	Source       string    `json:"source"`
	OriginalSize int64     `json:"original_size"`
	OutputSize   int64     `json:"output_size"`
	SavedPercent float64   `json:"saved_percent"`
	Format       Format    `json:"format"`
	Tier         string    `json:"tier,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Result describes the outcome of one compression or conversion.
type Result struct {
	Path         string  `json:"path"`
	OriginalSize int64   `json:"original_size"`
	OutputSize   int64   `json:"output_size"`
	SavedBytes   int64   `json:"saved_bytes"`
	SavedPercent float64 `json:"saved_percent"`
	Format       Format  `json:"format"`
	Tier         string  `json:"tier,omitempty"`
}

// NewResult fills the derived savings fields.
func NewResult(path string, format Format, tier string, original, output int64) Result {
	r := Result{
		Path:         path,
		OriginalSize: original,
		OutputSize:   output,
		Format:       format,
		Tier:         tier,
	}
	r.SavedBytes = original - output
	if original > 0 {
		r.SavedPercent = math.Round(float64(r.SavedBytes)/float64(original)*10000) / 100
	}
	return r
}

func (r Result) Record(now time.Time) Record {
	return Record{
		Source:       r.Path,
		OriginalSize: r.OriginalSize,
		OutputSize:   r.OutputSize,
		SavedPercent: r.SavedPercent,
		Format:       r.Format,
		Tier:         r.Tier,
		Timestamp:    now,
	}
}
