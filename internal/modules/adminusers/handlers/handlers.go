// Package handlers provides HTTP handlers for the internal staff API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/portsure/platform/internal/modules/adminusers"
)

// Handler handles staff account HTTP requests
type Handler struct {
	service *adminusers.Service
	log     zerolog.Logger
}

// NewHandler creates a new staff account handler
func NewHandler(service *adminusers.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "adminusers").Logger(),
	}
}

// HandleRegister creates a staff account gated by the bootstrap key
// POST /api/internal/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		RegistrationKey string `json:"registrationKey"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		FullName        string `json:"fullName"`
		Role            string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if payload.Email == "" || payload.Password == "" {
		h.writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	created, err := h.service.Register(payload.RegistrationKey, adminusers.AdminUser{
		Email:    payload.Email,
		Password: payload.Password,
		FullName: payload.FullName,
		Role:     payload.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, adminusers.ErrBadRegistrationKey):
			h.writeError(w, http.StatusForbidden, "invalid registration key")
		case errors.Is(err, adminusers.ErrEmailTaken):
			h.writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, adminusers.ErrInvalidRole):
			h.writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Error().Err(err).Msg("Staff registration failed")
			h.writeError(w, http.StatusInternalServerError, "failed to register staff account")
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, created)
}

// HandleLogin verifies staff credentials and issues a role-bearing token
// POST /api/internal/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid login payload")
		return
	}

	result, err := h.service.Login(creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, adminusers.ErrInvalidCredentials) {
			h.writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.log.Error().Err(err).Msg("Staff login failed")
		h.writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandleProfile returns one staff account
// GET /api/internal/profile/{staffId}
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	staffID, err := strconv.ParseInt(chi.URLParam(r, "staffId"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid staff id")
		return
	}

	profile, err := h.service.Profile(staffID)
	if err != nil {
		if errors.Is(err, adminusers.ErrAdminNotFound) {
			h.writeError(w, http.StatusNotFound, "staff account not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, profile)
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
