package api

import (
	"net/http"
	"strconv"

	"github.com/fhuszti/image-optimiser-go/internal/port"
)

// EncodersHandler reports the external encoders found on the host.
// ?refresh=true bypasses the cached probe.
func EncodersHandler(prober port.EncoderProber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refresh := false
		if raw := r.URL.Query().Get("refresh"); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				WriteError(w, http.StatusBadRequest, "refresh must be a boolean", nil)
				return
			}
			refresh = v
		}

		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, http.StatusOK, prober.Probe(r.Context(), refresh))
	}
}
