package optimiser

import "errors"

var (
	ErrNoTierSucceeded   = errors.New("no encoder tier produced output")
	ErrUnsupportedSource = errors.New("file is not a supported image")
	ErrPassThrough       = errors.New("format is passed through unchanged")
	ErrInputMissing      = errors.New("input file is missing or empty")
	ErrFormatUnavailable = errors.New("format unavailable")
)
