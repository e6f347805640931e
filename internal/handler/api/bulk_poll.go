package api

import (
	"net/http"

	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/port"
)

func BulkPollHandler(svc port.BulkOptimiser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		progress, err := svc.Poll(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "bulk optimisation poll failed", err)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, http.StatusOK, progress)
		logger.Infof(r.Context(), "✅  Bulk poll: %d processed, %d remaining", progress.Processed, progress.Remaining)
	}
}
