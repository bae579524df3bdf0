// Package api implements the JSON REST API using chi.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/exvids/internal/videoservice"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *videoservice.Service, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	r.Get("/videos", h.ListVideos)
	r.Post("/videos", h.CreateVideo)
	r.Get("/videos/{id}", h.GetVideo)

	r.Get("/check", h.CheckQuery)
	r.Post("/check", h.Check)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
