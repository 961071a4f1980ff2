// Package handlers provides HTTP handlers for the exposure alert API,
// including the live websocket stream.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/portsure/platform/internal/events"
	"github.com/portsure/platform/internal/modules/alerts"
)

// Handler handles alert HTTP requests
type Handler struct {
	service  *alerts.Service
	eventBus *events.Bus
	log      zerolog.Logger
}

// NewHandler creates a new alert handler
func NewHandler(service *alerts.Service, eventBus *events.Bus, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		eventBus: eventBus,
		log:      log.With().Str("handler", "alerts").Logger(),
	}
}

// HandleSend records an alert against a portfolio
// POST /api/alerts/send/{portfolioId}
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	portfolioID, err := strconv.ParseInt(chi.URLParam(r, "portfolioId"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}

	var alert alerts.ExposureAlert
	if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid alert payload")
		return
	}

	created, err := h.service.Create(portfolioID, alert)
	if err != nil {
		if errors.Is(err, alerts.ErrInvalidPortfolio) || errors.Is(err, alerts.ErrMissingInvestor) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Int64("portfolio_id", portfolioID).Msg("Failed to record alert")
		h.writeError(w, http.StatusInternalServerError, "failed to record alert")
		return
	}

	h.writeJSON(w, http.StatusCreated, created)
}

// HandleGetAll returns every alert
// GET /api/alerts/all
func (h *Handler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.GetAll()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if list == nil {
		list = []alerts.ExposureAlert{}
	}
	h.writeJSON(w, http.StatusOK, list)
}

// HandleGetByInvestor returns all alerts for one investor
// GET /api/alerts/investor/{investorId}
func (h *Handler) HandleGetByInvestor(w http.ResponseWriter, r *http.Request) {
	investorID, err := strconv.ParseInt(chi.URLParam(r, "investorId"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid investor id")
		return
	}

	list, err := h.service.GetByInvestor(investorID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if list == nil {
		list = []alerts.ExposureAlert{}
	}
	h.writeJSON(w, http.StatusOK, list)
}

// HandleDelete removes an alert
// DELETE /api/alerts/{alertId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	alertID, err := strconv.ParseInt(chi.URLParam(r, "alertId"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	if err := h.service.Delete(alertID); err != nil {
		if errors.Is(err, alerts.ErrAlertNotFound) {
			h.writeError(w, http.StatusNotFound, "alert not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"message": "alert " + strconv.FormatInt(alertID, 10) + " deleted",
	})
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
