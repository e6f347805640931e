package api

import (
	"encoding/json"
	"net/http"

	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/fhuszti/image-optimiser-go/internal/validation"
)

type RegisterAttachmentRequest struct {
	Path string `json:"path" validate:"required,imagepath"`
}

// RegisterAttachmentHandler registers a file already present in the uploads dir.
func RegisterAttachmentHandler(svc port.AttachmentRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterAttachmentRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request payload", err)
			return
		}

		if errs := validation.ValidateStruct(req); errs != nil {
			errsJSON, err := validation.ErrorsToJson(errs)
			if err != nil {
				WriteError(w, http.StatusInternalServerError, "failed to encode validation errors", err)
				return
			}
			RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
			logger.Warnf(r.Context(), "❌  Validation failed: %s", errsJSON)
			return
		}

		a, err := svc.Register(r.Context(), req.Path)
		if err != nil {
			if a == nil {
				writeAttachmentError(w, "could not register attachment", err)
				return
			}
			logger.Warnf(r.Context(), "registered %s but dispatch failed: %v", a.Path, err)
		}

		RespondJSON(w, http.StatusOK, a)
		logger.Infof(r.Context(), "✅  Registered %s as attachment #%s", a.Path, a.ID)
	}
}
