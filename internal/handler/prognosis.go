package handler

import (
	"net/http"
)

// GeneratePrognosis handles POST /api/prognosis/refresh. Generation is
// serialized per user and counted against a daily quota; over-quota
// requests get the cached report with rate_limited set, or a 429 when no
// report exists yet.
func (h *Handler) GeneratePrognosis(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GeneratePrognosis(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// GetCurrentPrognosis handles GET /api/prognosis/current. Returns null when
// no report has been generated yet.
func (h *Handler) GetCurrentPrognosis(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetCurrentPrognosis(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}
