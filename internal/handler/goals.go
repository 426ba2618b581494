package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
	"github.com/xevansz/Prognos-Advisor-AI/internal/service"
)

type createGoalRequest struct {
	Name           string          `json:"name" validate:"required,max=200"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
	TargetCurrency string          `json:"target_currency" validate:"omitempty,len=3,alpha"`
	TargetDate     string          `json:"target_date"`
	Priority       string          `json:"priority" validate:"omitempty,oneof=high medium low"`
}

type updateGoalRequest struct {
	Name           *string          `json:"name" validate:"omitempty,max=200"`
	TargetAmount   *decimal.Decimal `json:"target_amount"`
	TargetCurrency *string          `json:"target_currency" validate:"omitempty,len=3,alpha"`
	TargetDate     *string          `json:"target_date"`
	Priority       *string          `json:"priority" validate:"omitempty,oneof=high medium low"`
}

// ListGoals handles GET /api/goals.
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	goals, err := h.svc.ListGoals(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if goals == nil {
		goals = []models.Goal{}
	}
	h.respondJSON(w, http.StatusOK, goals)
}

// GetGoal handles GET /api/goals/{id}.
func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	goal, err := h.svc.GetGoal(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, goal)
}

// CreateGoal handles POST /api/goals. The target date is optional; undated
// goals are excluded from prognosis runs.
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req createGoalRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if !req.TargetAmount.IsPositive() {
		h.respondError(w, http.StatusBadRequest, "target_amount must be positive")
		return
	}

	var targetDate time.Time
	if req.TargetDate != "" {
		var ok bool
		targetDate, ok = h.parseDate(w, req.TargetDate)
		if !ok {
			return
		}
	}

	goal, err := h.svc.CreateGoal(r.Context(), userID, service.GoalParams{
		Name:           req.Name,
		TargetAmount:   req.TargetAmount,
		TargetCurrency: req.TargetCurrency,
		TargetDate:     targetDate,
		Priority:       models.GoalPriority(req.Priority),
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, goal)
}

// UpdateGoal handles PUT /api/goals/{id}. Only the provided fields change.
func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req updateGoalRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if req.TargetAmount != nil && !req.TargetAmount.IsPositive() {
		h.respondError(w, http.StatusBadRequest, "target_amount must be positive")
		return
	}

	params := service.GoalUpdateParams{
		Name:           req.Name,
		TargetAmount:   req.TargetAmount,
		TargetCurrency: req.TargetCurrency,
	}
	if req.TargetDate != nil {
		date, ok := h.parseDate(w, *req.TargetDate)
		if !ok {
			return
		}
		params.TargetDate = &date
	}
	if req.Priority != nil {
		priority := models.GoalPriority(*req.Priority)
		params.Priority = &priority
	}

	goal, err := h.svc.UpdateGoal(r.Context(), userID, mux.Vars(r)["id"], params)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, goal)
}

// DeleteGoal handles DELETE /api/goals/{id}.
func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteGoal(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}
