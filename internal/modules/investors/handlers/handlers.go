// Package handlers provides HTTP handlers for the investor API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/portsure/platform/internal/modules/investors"
)

// Handler handles investor HTTP requests
type Handler struct {
	service *investors.Service
	log     zerolog.Logger
}

// NewHandler creates a new investor handler
func NewHandler(service *investors.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "investors").Logger(),
	}
}

// HandleRegister creates a new investor account
// POST /api/investors/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var investor investors.Investor
	if err := json.NewDecoder(r.Body).Decode(&investor); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid investor payload")
		return
	}
	if investor.Email == "" || investor.Password == "" {
		h.writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	created, err := h.service.Register(investor)
	if err != nil {
		if errors.Is(err, investors.ErrEmailTaken) {
			h.writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Investor registration failed")
		h.writeError(w, http.StatusInternalServerError, "failed to register investor")
		return
	}

	h.writeJSON(w, http.StatusCreated, created)
}

// HandleLogin verifies credentials and issues a token
// POST /api/investors/login
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
		if errors.Is(err, investors.ErrInvalidCredentials) {
			h.writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.log.Error().Err(err).Msg("Investor login failed")
		h.writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandleGetAll returns all investors
// GET /api/investors/getAllInvestors
func (h *Handler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.GetAll()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if list == nil {
		list = []investors.Investor{}
	}
	h.writeJSON(w, http.StatusOK, list)
}

// HandleGetByID returns one investor
// GET /api/investors/{id}
func (h *Handler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	investor, err := h.service.GetByID(id)
	if err != nil {
		if errors.Is(err, investors.ErrInvestorNotFound) {
			h.writeError(w, http.StatusNotFound, "investor not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, investor)
}

// HandleUpdateProfile changes an investor's name, email or phone
// PUT /api/investors/update/{id}
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var investor investors.Investor
	if err := json.NewDecoder(r.Body).Decode(&investor); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid investor payload")
		return
	}

	updated, err := h.service.UpdateProfile(id, investor)
	if err != nil {
		if errors.Is(err, investors.ErrInvestorNotFound) {
			h.writeError(w, http.StatusNotFound, "investor not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, updated)
}

// HandleChangePassword sets a new password after a full-name identity check
// PUT /api/investors/update-password/{id}
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var payload struct {
		FullName    string `json:"fullName"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	err := h.service.ChangePassword(id, payload.FullName, payload.NewPassword)
	if err != nil {
		if errors.Is(err, investors.ErrIdentityMismatch) {
			h.writeError(w, http.StatusUnauthorized, "identity verification failed")
			return
		}
		if errors.Is(err, investors.ErrInvestorNotFound) {
			h.writeError(w, http.StatusNotFound, "investor not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// HandleCheckEmail reports whether an email is already registered
// POST /api/investors/check-email
func (h *Handler) HandleCheckEmail(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	exists, err := h.service.CheckEmail(payload.Email)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// HandleResetPassword sets a new password by registered email
// POST /api/investors/reset-password
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email       string `json:"email"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := h.service.ResetPassword(payload.Email, payload.NewPassword); err != nil {
		if errors.Is(err, investors.ErrInvestorNotFound) {
			h.writeError(w, http.StatusNotFound, "no account for that email")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "password reset"})
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
