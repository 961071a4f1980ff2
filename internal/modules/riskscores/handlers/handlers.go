// Package handlers provides HTTP handlers for the risk score API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/portsure/platform/internal/modules/riskscores"
)

// Handler handles risk score HTTP requests
type Handler struct {
	service *riskscores.Service
	log     zerolog.Logger
}

// NewHandler creates a new risk score handler
func NewHandler(service *riskscores.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "riskscores").Logger(),
	}
}

// HandleCalculate grades a portfolio and stores the result
// POST /api/risk-scores/calculate/{portfolioId}
func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	portfolioID, err := strconv.ParseInt(chi.URLParam(r, "portfolioId"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}

	score, err := h.service.Calculate(portfolioID)
	if err != nil {
		if errors.Is(err, riskscores.ErrPortfolioNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, riskscores.ErrIncompleteData) {
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.log.Error().Err(err).Int64("portfolio_id", portfolioID).Msg("Risk calculation failed")
		h.writeError(w, http.StatusInternalServerError, "failed to calculate risk score")
		return
	}

	h.writeJSON(w, http.StatusOK, score)
}

// HandleGetByPortfolio returns the current grade for a portfolio
// GET /api/risk-scores/portfolio/{portfolioId}
func (h *Handler) HandleGetByPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID, err := strconv.ParseInt(chi.URLParam(r, "portfolioId"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}

	score, err := h.service.GetByPortfolio(portfolioID)
	if err != nil {
		if errors.Is(err, riskscores.ErrScoreNotFound) {
			h.writeError(w, http.StatusNotFound, "no risk score for that portfolio")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, score)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
