package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all investor routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/investors", func(r chi.Router) {
		r.Post("/register", h.HandleRegister)
		r.Post("/login", h.HandleLogin)
		r.Get("/getAllInvestors", h.HandleGetAll)
		r.Put("/update/{id}", h.HandleUpdateProfile)
		r.Put("/update-password/{id}", h.HandleChangePassword)
		r.Post("/check-email", h.HandleCheckEmail)
		r.Post("/reset-password", h.HandleResetPassword)
		r.Get("/{id}", h.HandleGetByID)
	})
}
