package mockapi

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes mirrors the backend's blueprints.
func (s *Server) setupRoutes() {
	s.router.Route(s.config.Prefix, func(r chi.Router) {
		r.Get("/health", s.health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.register)
			r.Post("/login", s.login)
			r.With(s.requireAuth).Get("/profile", s.getProfile)
			r.With(s.requireAuth).Put("/profile", s.updateProfile)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.listProjects)
			r.Post("/", s.createProject)
			r.Get("/{projectID}", s.getProject)
			r.Put("/{projectID}", s.updateProject)
			r.Delete("/{projectID}", s.deleteProject)
		})

		r.Route("/ai", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/generate-website", s.generateWebsite)
			r.Post("/regenerate-website", s.regenerateWebsite)
			r.Get("/generation-history/{projectID}", s.generationHistory)
		})
	})
}
