package handler

import (
	"net/http"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
	"github.com/xevansz/Prognos-Advisor-AI/internal/service"
)

type saveProfileRequest struct {
	Age          int    `json:"age" validate:"required,gte=13,lte=120"`
	DisplayName  string `json:"display_name" validate:"max=120"`
	Gender       string `json:"gender" validate:"max=40"`
	BaseCurrency string `json:"base_currency" validate:"omitempty,len=3,alpha"`
	RiskAppetite string `json:"risk_appetite" validate:"omitempty,oneof=conservative moderate aggressive"`
}

// GetProfile handles GET /api/profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	profile, err := h.svc.GetProfile(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, profile)
}

// SaveProfile handles PUT /api/profile. The profile is replaced wholesale;
// there is no partial update.
func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req saveProfileRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.svc.SaveProfile(r.Context(), userID, service.ProfileParams{
		Age:          req.Age,
		DisplayName:  req.DisplayName,
		Gender:       req.Gender,
		BaseCurrency: req.BaseCurrency,
		RiskAppetite: models.RiskAppetite(req.RiskAppetite),
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, profile)
}
