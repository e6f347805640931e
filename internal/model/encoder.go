package model

// EncoderDescriptor is the probe result for one external encoder.
type EncoderDescriptor struct {
	Name      string `json:"name"`
	Probe     string `json:"probe"`
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Tag       string `json:"tag"`
}

// EncoderSet maps encoder names to their descriptor.
type EncoderSet map[string]EncoderDescriptor

func (s EncoderSet) IsAvailable(name string) bool {
	d, ok := s[name]
	return ok && d.Available
}
