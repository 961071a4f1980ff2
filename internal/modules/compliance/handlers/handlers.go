// Package handlers provides HTTP handlers for the compliance audit API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/portsure/platform/internal/clients/portfolioapi"
	"github.com/portsure/platform/internal/modules/compliance"
)

// Handler handles compliance HTTP requests
type Handler struct {
	service *compliance.AuditService
	log     zerolog.Logger
}

// NewHandler creates a new compliance handler
func NewHandler(service *compliance.AuditService, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "compliance").Logger(),
	}
}

// HandleAuditOne triggers an audit of a single portfolio
// POST /api/compliance/audit/{portfolioId}
func (h *Handler) HandleAuditOne(w http.ResponseWriter, r *http.Request) {
	portfolioID, err := strconv.ParseInt(chi.URLParam(r, "portfolioId"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}

	report, err := h.service.AuditOne(portfolioID)
	if err != nil {
		switch {
		case errors.Is(err, compliance.ErrIncompleteData):
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, portfolioapi.ErrNotFound):
			// Lookup failures (remote error or genuinely absent) map to 404
			h.writeError(w, http.StatusNotFound, err.Error())
		default:
			h.log.Error().Err(err).Int64("portfolio_id", portfolioID).Msg("Audit failed")
			h.writeError(w, http.StatusInternalServerError, "audit failed")
		}
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

// HandleAuditAll triggers a bulk audit of every portfolio
// POST /api/compliance/audit-all
func (h *Handler) HandleAuditAll(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.AuditAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Bulk audit failed")
		h.writeError(w, http.StatusInternalServerError, "audit run failed")
		return
	}

	if reports == nil {
		reports = []compliance.Report{}
	}
	h.writeJSON(w, http.StatusOK, reports)
}

// HandleGetLogs returns all compliance reports
// GET /api/compliance/logs
func (h *Handler) HandleGetLogs(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.Reports()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if reports == nil {
		reports = []compliance.Report{}
	}
	h.writeJSON(w, http.StatusOK, reports)
}

// HandleCreateLog persists a manually supplied report row
// POST /api/compliance/logs/create
func (h *Handler) HandleCreateLog(w http.ResponseWriter, r *http.Request) {
	var report compliance.Report
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid report payload")
		return
	}

	created, err := h.service.CreateReport(report)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create compliance log")
		h.writeError(w, http.StatusInternalServerError, "failed to save report")
		return
	}

	h.writeJSON(w, http.StatusOK, created)
}

// HandleDeleteLog removes a report by log id
// DELETE /api/compliance/logs/{logId}
func (h *Handler) HandleDeleteLog(w http.ResponseWriter, r *http.Request) {
	logID, err := strconv.ParseInt(chi.URLParam(r, "logId"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid log id")
		return
	}

	if err := h.service.DeleteReport(logID); err != nil {
		if errors.Is(err, compliance.ErrReportNotFound) {
			h.writeError(w, http.StatusNotFound, "report not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"message": "log " + strconv.FormatInt(logID, 10) + " deleted",
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
