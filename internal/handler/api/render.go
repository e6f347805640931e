package api

import (
	"io"
	"net/http"

	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/fhuszti/image-optimiser-go/internal/rewriter"
)

const maxMarkupSize = 10 << 20

// RenderHandler rewrites the posted markup for the client in the Accept header.
func RenderHandler(renderer port.MarkupRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMarkupSize))
		if err != nil {
			WriteError(w, http.StatusRequestEntityTooLarge, "markup is too large", err)
			return
		}

		caps := rewriter.ParseAccept(r.Header.Get("Accept"))
		body, etag := renderer.RenderMarkup(r.Context(), string(raw), caps)

		w.Header().Set("Vary", "Accept")
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "public, max-age=300")
		if match := r.Header.Get("If-None-Match"); match == etag {
			w.WriteHeader(http.StatusNotModified)
			logger.Debug(r.Context(), "✅  Returning cached markup")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			logger.Errorf(r.Context(), "❌  Failed to write markup: %v", err)
		}
	}
}
