package api

import (
	"net/http"
	"strconv"

	"github.com/fhuszti/image-optimiser-go/internal/port"
)

func RecordsHandler(svc port.RecordsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				WriteError(w, http.StatusBadRequest, "limit must be a positive integer", nil)
				return
			}
			limit = n
		}

		recs, err := svc.ListRecords(r.Context(), limit)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "could not read optimisation records", err)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, http.StatusOK, recs)
	}
}
