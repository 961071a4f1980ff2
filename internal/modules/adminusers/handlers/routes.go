package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all internal staff routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/internal", func(r chi.Router) {
		r.Post("/register", h.HandleRegister)
		r.Post("/login", h.HandleLogin)
		r.Get("/profile/{staffId}", h.HandleProfile)
	})
}
