// internal/app/features/schedule/routes.go
package schedule

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the schedule API, mounted at /api.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/state", h.GetState)
	r.Put("/state", h.PutState)
	r.Get("/schedule", h.GetGrid)

	r.Route("/solve", func(r chi.Router) {
		r.Post("/", h.Solve)
		r.Get("/runs", h.ListRuns)
		r.Get("/runs/{id}", h.GetRun)
		r.Post("/runs/{id}/abort", h.AbortRun)
	})

	return r
}
