// Package handlers provides HTTP handlers for the portfolio API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/portsure/platform/internal/modules/portfolios"
)

// Handler handles portfolio HTTP requests
type Handler struct {
	service *portfolios.Service
	log     zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(service *portfolios.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "portfolios").Logger(),
	}
}

// HandleGetAll returns all portfolios
// GET /api/portfolios/all
func (h *Handler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.GetAll()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if list == nil {
		list = []portfolios.Portfolio{}
	}
	h.writeJSON(w, http.StatusOK, list)
}

// HandleGetByID returns one portfolio
// GET /api/portfolios/{id}
func (h *Handler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	portfolio, err := h.service.GetByID(id)
	if err != nil {
		if errors.Is(err, portfolios.ErrPortfolioNotFound) {
			h.writeError(w, http.StatusNotFound, "portfolio not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, portfolio)
}

// HandleGetByInvestor returns all portfolios for one investor
// GET /api/portfolios/investor/{investorId}
func (h *Handler) HandleGetByInvestor(w http.ResponseWriter, r *http.Request) {
	investorID, ok := h.pathID(w, r, "investorId")
	if !ok {
		return
	}

	list, err := h.service.GetByInvestor(investorID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if list == nil {
		list = []portfolios.Portfolio{}
	}
	h.writeJSON(w, http.StatusOK, list)
}

// HandleSubmit records a new portfolio submission for an investor
// POST /api/portfolios/submit/{investorId}
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	investorID, ok := h.pathID(w, r, "investorId")
	if !ok {
		return
	}

	var portfolio portfolios.Portfolio
	if err := json.NewDecoder(r.Body).Decode(&portfolio); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid portfolio payload")
		return
	}

	created, err := h.service.Submit(investorID, portfolio)
	if err != nil {
		if errors.Is(err, portfolios.ErrInvestorNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Int64("investor_id", investorID).Msg("Portfolio submission failed")
		h.writeError(w, http.StatusInternalServerError, "failed to submit portfolio")
		return
	}

	h.writeJSON(w, http.StatusCreated, created)
}

// HandleUpdate overwrites a portfolio and marks it approved
// PUT /api/portfolios/update/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var portfolio portfolios.Portfolio
	if err := json.NewDecoder(r.Body).Decode(&portfolio); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid portfolio payload")
		return
	}

	updated, err := h.service.Update(id, portfolio)
	if err != nil {
		if errors.Is(err, portfolios.ErrPortfolioNotFound) {
			h.writeError(w, http.StatusNotFound, "portfolio not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, updated)
}

// HandleUpdateStatus moves a portfolio to a new lifecycle state
// PUT /api/portfolios/status/{id}?status=Approved
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	status := portfolios.Status(r.URL.Query().Get("status"))
	updated, err := h.service.UpdateStatus(id, status)
	if err != nil {
		if errors.Is(err, portfolios.ErrInvalidStatus) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, portfolios.ErrPortfolioNotFound) {
			h.writeError(w, http.StatusNotFound, "portfolio not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, updated)
}

// HandleResubmit sends a rejected portfolio back through review
// PUT /api/portfolios/resubmit/{id}
func (h *Handler) HandleResubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var portfolio portfolios.Portfolio
	if err := json.NewDecoder(r.Body).Decode(&portfolio); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid portfolio payload")
		return
	}

	updated, err := h.service.Resubmit(id, portfolio)
	if err != nil {
		if errors.Is(err, portfolios.ErrPortfolioNotFound) {
			h.writeError(w, http.StatusNotFound, "portfolio not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, updated)
}

// HandleDelete removes a portfolio
// DELETE /api/portfolios/delete/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, portfolios.ErrPortfolioNotFound) {
			h.writeError(w, http.StatusNotFound, "portfolio not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"message": "portfolio " + strconv.FormatInt(id, 10) + " deleted",
	})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
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
