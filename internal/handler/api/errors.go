package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/image-optimiser-go/internal/usecase/attachment"
)

// writeAttachmentError maps use-case sentinels to HTTP statuses.
func writeAttachmentError(w http.ResponseWriter, fallback string, err error) {
	var tooBig *http.MaxBytesError
	switch {
	case errors.Is(err, attachment.ErrAttachmentNotFound):
		WriteError(w, http.StatusNotFound, "Attachment not found", nil)
	case errors.Is(err, attachment.ErrUnsupportedFormat):
		WriteError(w, http.StatusUnsupportedMediaType, "Unsupported image format", err)
	case errors.Is(err, attachment.ErrFileTooLarge), errors.As(err, &tooBig):
		WriteError(w, http.StatusRequestEntityTooLarge, "File is too large", err)
	case errors.Is(err, attachment.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, fallback, err)
	}
}
