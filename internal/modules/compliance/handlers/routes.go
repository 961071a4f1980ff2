package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all compliance routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/compliance", func(r chi.Router) {
		r.Post("/audit/{portfolioId}", h.HandleAuditOne)
		r.Post("/audit-all", h.HandleAuditAll)
		r.Get("/logs", h.HandleGetLogs)
		r.Post("/logs/create", h.HandleCreateLog)
		r.Delete("/logs/{logId}", h.HandleDeleteLog)
	})
}
