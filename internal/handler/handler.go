package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/xevansz/Prognos-Advisor-AI/internal/config"
	"github.com/xevansz/Prognos-Advisor-AI/internal/middleware"
	"github.com/xevansz/Prognos-Advisor-AI/internal/repository"
	"github.com/xevansz/Prognos-Advisor-AI/internal/service"
)

// dateLayout is the wire format for transaction and goal dates.
const dateLayout = "2006-01-02"

// Version is the API build tag reported by the health endpoint.
const Version = "1.0.0"

type Handler struct {
	svc      *service.Service
	log      *logrus.Logger
	cfg      *config.Config
	validate *validator.Validate
}

func NewHandler(svc *service.Service, log *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		svc:      svc,
		log:      log,
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Health reports liveness. It is the only unauthenticated endpoint besides
// the FX rate feed.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"environment": h.cfg.Environment,
		"version":     Version,
		"time":        time.Now().UTC().Format(time.RFC3339),
	})
}

// FXRates returns the latest exchange rate snapshot.
func (h *Handler) FXRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.svc.GetRates(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, rates)
}

// userID pulls the authenticated subject out of the request context. The
// auth middleware guarantees it is present on protected routes.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.UserID(r.Context())
	if !ok || id == "" {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return id, true
}

// decodeAndValidate parses the JSON body into dst and runs struct
// validation, writing a 400 response on failure.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return false
	}
	return true
}

// parseDate parses a required wire date, writing a 400 response on failure.
func (h *Handler) parseDate(w http.ResponseWriter, value string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service sentinels onto HTTP statuses.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, service.ErrProfileRequired):
		h.respondError(w, http.StatusBadRequest, "a user profile is required before generating a prognosis")
	case errors.Is(err, service.ErrQuotaExceeded):
		h.respondError(w, http.StatusTooManyRequests, h.svc.QuotaMessage())
	default:
		h.log.Errorf("Request failed: %v", err)
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
