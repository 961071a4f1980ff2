package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all alert routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/alerts", func(r chi.Router) {
		r.Post("/send/{portfolioId}", h.HandleSend)
		r.Get("/all", h.HandleGetAll)
		r.Get("/investor/{investorId}", h.HandleGetByInvestor)
		r.Get("/stream", h.HandleStream)
		r.Delete("/{alertId}", h.HandleDelete)
	})
}
