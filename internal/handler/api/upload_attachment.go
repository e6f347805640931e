package api

import (
	"net/http"

	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/fhuszti/image-optimiser-go/internal/usecase/attachment"
	"github.com/fhuszti/image-optimiser-go/internal/uuid"
)

// multipart framing allowance on top of the file itself
const uploadOverhead = 1 << 20

type UploadAttachmentResponse struct {
	ID   uuid.UUID `json:"id"`
	Path string    `json:"path"`
}

func UploadAttachmentHandler(svc port.AttachmentUploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, attachment.MaxFileSize+uploadOverhead)
		mr, err := r.MultipartReader()
		if err != nil {
			WriteError(w, http.StatusBadRequest, "expected a multipart/form-data body", err)
			return
		}

		for {
			part, err := mr.NextPart()
			if err != nil {
				WriteError(w, http.StatusBadRequest, `missing "file" field`, nil)
				return
			}
			if part.FormName() != "file" || part.FileName() == "" {
				_ = part.Close()
				continue
			}

			a, err := svc.Upload(r.Context(), part.FileName(), part)
			_ = part.Close()
			if err != nil {
				writeAttachmentError(w, "could not store upload", err)
				return
			}

			RespondJSON(w, http.StatusCreated, UploadAttachmentResponse{ID: a.ID, Path: a.Path})
			logger.Infof(r.Context(), "✅  Stored upload %s as attachment #%s", a.Path, a.ID)
			return
		}
	}
}
