package attachment

import "errors"

var (
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrUnsupportedFormat  = errors.New("unsupported image format")
	ErrInvalidInput       = errors.New("invalid input")
	ErrFileTooLarge       = errors.New("file exceeds the upload size limit")
)
