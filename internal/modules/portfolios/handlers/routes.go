package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portfolios", func(r chi.Router) {
		r.Get("/all", h.HandleGetAll)
		r.Get("/investor/{investorId}", h.HandleGetByInvestor)
		r.Post("/submit/{investorId}", h.HandleSubmit)
		r.Put("/update/{id}", h.HandleUpdate)
		r.Put("/status/{id}", h.HandleUpdateStatus)
		r.Put("/resubmit/{id}", h.HandleResubmit)
		r.Delete("/delete/{id}", h.HandleDelete)
		r.Get("/{id}", h.HandleGetByID)
	})
}
