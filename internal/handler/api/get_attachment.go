package api

import (
	"net/http"

	"github.com/fhuszti/image-optimiser-go/internal/api_context"
	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/port"
)

func GetAttachmentHandler(svc port.AttachmentGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.AttachmentIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		a, err := svc.GetAttachment(r.Context(), id)
		if err != nil {
			writeAttachmentError(w, "Could not get attachment details", err)
			return
		}

		w.Header().Set("Cache-Control", "no-cache")
		RespondJSON(w, http.StatusOK, a)
		logger.Infof(r.Context(), "✅  Successfully returned details for attachment #%s", id)
	}
}
