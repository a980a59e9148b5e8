package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/eihwaz/internal/treeservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *treeservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Rendered navigable trees.
	r.Get("/tree/*", h.GetTree)

	// Notes.
	r.Get("/notes/*", h.GetNote)

	// Identifier resolution and search.
	r.Get("/resolve", h.Resolve)
	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
