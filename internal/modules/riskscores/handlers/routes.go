package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all risk score routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/risk-scores", func(r chi.Router) {
		r.Post("/calculate/{portfolioId}", h.HandleCalculate)
		r.Get("/portfolio/{portfolioId}", h.HandleGetByPortfolio)
	})
}
