package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/wizard", func(r chi.Router) {
			r.Post("/", h.CreateWizard)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetWizard)
				r.Patch("/", h.UpdateWizard)
				r.Post("/next", h.AdvanceWizard)
				r.Post("/back", h.RewindWizard)
				r.Post("/standards", h.TriggerStandards)
				r.Post("/hooks", h.GenerateHooks)
				r.Post("/hooks/choose", h.ChooseHook)
				r.Post("/wildcard", h.WildCard)
				r.Post("/complete", h.CompleteWizard)
			})
		})

		r.Route("/plan", func(r chi.Router) {
			r.Get("/", h.GetPlan)
			r.Put("/cells/{row}/{col}", h.SetCell)
			r.Post("/rows/{row}/refine", h.RefineRow)
			r.Post("/rows/{row}/suggestions", h.SuggestActivities)
			r.Post("/rows/{row}/suggestions/apply", h.ApplySuggestion)
		})

		r.Route("/library", func(r chi.Router) {
			r.Get("/", h.ListLibrary)
			r.Post("/", h.SaveLesson)
			r.Get("/{id}", h.LoadLesson)
			r.Delete("/{id}", h.DeleteLesson)
		})
	})

	return r
}
