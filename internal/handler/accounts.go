package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
	"github.com/xevansz/Prognos-Advisor-AI/internal/service"
)

type createAccountRequest struct {
	Name           string          `json:"name" validate:"required,max=120"`
	Type           string          `json:"type" validate:"required,oneof=bank cash holdings crypto other"`
	Currency       string          `json:"currency" validate:"required,len=3,alpha"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type updateAccountRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=120"`
	Type     *string `json:"type" validate:"omitempty,oneof=bank cash holdings crypto other"`
	Currency *string `json:"currency" validate:"omitempty,len=3,alpha"`
}

// ListAccounts handles GET /api/accounts.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	accounts, err := h.svc.ListAccounts(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	h.respondJSON(w, http.StatusOK, accounts)
}

// GetAccount handles GET /api/accounts/{id}.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	account, err := h.svc.GetAccount(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, account)
}

// CreateAccount handles POST /api/accounts.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req createAccountRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	account, err := h.svc.CreateAccount(r.Context(), userID, service.AccountParams{
		Name:           req.Name,
		Type:           models.AccountType(req.Type),
		Currency:       req.Currency,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, account)
}

// UpdateAccount handles PUT /api/accounts/{id}. Only the provided fields
// change; balance is never writable here.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req updateAccountRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	params := service.AccountUpdateParams{
		Name:     req.Name,
		Currency: req.Currency,
	}
	if req.Type != nil {
		accountType := models.AccountType(*req.Type)
		params.Type = &accountType
	}

	account, err := h.svc.UpdateAccount(r.Context(), userID, mux.Vars(r)["id"], params)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, account)
}

// DeleteAccount handles DELETE /api/accounts/{id}.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteAccount(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}
