package api

import (
	"context"
	"net/http"

	"github.com/fhuszti/image-optimiser-go/internal/api_context"
	"github.com/fhuszti/image-optimiser-go/internal/uuid"
	"github.com/go-chi/chi/v5"
)

var testID = uuid.UUID{0xaa, 0xaa, 0xaa, 0xaa, 0xbb, 0xbb, 0xcc, 0xcc, 0xdd, 0xdd, 0xee, 0xee, 0xee, 0xee, 0xee, 0xee}

func withID(r *http.Request, id uuid.UUID) *http.Request {
	return r.WithContext(api_context.WithAttachmentID(r.Context(), id))
}

func withWildcard(r *http.Request, v string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("*", v)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
