package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fhuszti/image-optimiser-go/internal/uuid"
)

// Attachment is the per-upload metadata kept in the database.
type Attachment struct {
	ID             uuid.UUID `json:"id"`
	Path           string    `json:"path"`
	MimeType       string    `json:"mime_type"`
	OriginalSize   int64     `json:"original_size"`
	OptimisedSize  *int64    `json:"optimised_size,omitempty"`
	Optimised      bool      `json:"optimised"`
	Formats        Formats   `json:"formats"`
	FailureMessage *string   `json:"failure_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Sibling describes one alternate-format file generated next to the original.
type Sibling struct {
	Format    Format `json:"format"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

type Formats []Sibling

func (f Formats) Value() (driver.Value, error) {
	if f == nil {
		f = Formats{}
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal Formats: %w", err)
	}
	return b, nil
}

func (f *Formats) Scan(src interface{}) error {
	if src == nil {
		*f = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("Formats.Scan: expected []byte, got %T", src)
	}
	if err := json.Unmarshal(data, f); err != nil {
		return fmt.Errorf("unmarshal Formats: %w", err)
	}
	return nil
}

// Has reports whether a sibling in format fm was recorded.
func (f Formats) Has(fm Format) bool {
	for _, s := range f {
		if s.Format == fm {
			return true
		}
	}
	return false
}
