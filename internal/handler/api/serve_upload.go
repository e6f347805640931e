package api

import (
	"net/http"

	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/fhuszti/image-optimiser-go/internal/rewriter"
	"github.com/go-chi/chi/v5"
)

// ServeUploadHandler serves files from the uploads dir, substituting an
// AVIF or WebP sibling when the client accepts one.
func ServeUploadHandler(renderer port.MarkupRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rel := chi.URLParam(r, "*")
		caps := rewriter.ParseAccept(r.Header.Get("Accept"))

		file, ok := renderer.ResolveUpload(r.Context(), rel, caps)
		if !ok {
			WriteError(w, http.StatusNotFound, "File not found", nil)
			return
		}

		w.Header().Set("Vary", "Accept")
		if f, ok := model.FormatFromPath(file); ok {
			w.Header().Set("Content-Type", f.MimeType())
		}
		http.ServeFile(w, r, file)
	}
}
