package api

import (
	"net/http"

	"github.com/fhuszti/image-optimiser-go/internal/api_context"
	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/port"
)

// OptimiseAttachmentHandler runs the optimisation synchronously and returns
// the updated attachment.
func OptimiseAttachmentHandler(svc port.AttachmentOptimiser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.AttachmentIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		a, err := svc.OptimiseAttachment(r.Context(), id)
		if err != nil {
			writeAttachmentError(w, "could not optimise attachment", err)
			return
		}

		RespondJSON(w, http.StatusOK, a)
		logger.Infof(r.Context(), "✅  Optimised attachment #%s", id)
	}
}
