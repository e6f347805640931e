package middleware

import (
	"fmt"
	"net/http"

	"github.com/fhuszti/image-optimiser-go/internal/api_context"
	"github.com/fhuszti/image-optimiser-go/internal/handler/api"
	"github.com/fhuszti/image-optimiser-go/internal/uuid"
	"github.com/go-chi/chi/v5"
)

// WithAttachmentID parses the {id} route param and stashes it in the context.
func WithAttachmentID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			if id == "" {
				api.WriteError(w, http.StatusBadRequest, "ID is required", nil)
				return
			}
			parsedID, err := uuid.Parse(id)
			if err != nil {
				api.WriteError(w, http.StatusBadRequest, fmt.Sprintf("ID %q is not a valid UUID", id), nil)
				return
			}

			ctx := api_context.WithAttachmentID(r.Context(), parsedID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
