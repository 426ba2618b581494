package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
	"github.com/xevansz/Prognos-Advisor-AI/internal/repository"
	"github.com/xevansz/Prognos-Advisor-AI/internal/service"
)

type createTransactionRequest struct {
	AccountID   string          `json:"account_id" validate:"required,uuid"`
	Label       string          `json:"label" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=1000"`
	Date        string          `json:"date" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type" validate:"required,oneof=debit credit"`
	Currency    string          `json:"currency" validate:"omitempty,len=3,alpha"`
	IsRecurring bool            `json:"is_recurring"`
}

type updateTransactionRequest struct {
	AccountID   *string          `json:"account_id" validate:"omitempty,uuid"`
	Label       *string          `json:"label" validate:"omitempty,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Date        *string          `json:"date"`
	Amount      *decimal.Decimal `json:"amount"`
	Type        *string          `json:"type" validate:"omitempty,oneof=debit credit"`
}

// ListTransactions handles GET /api/transactions. Supported query
// parameters: account_id, from, to (YYYY-MM-DD), limit, offset.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var filter repository.TransactionFilter
	q := r.URL.Query()
	filter.AccountID = q.Get("account_id")
	if v := q.Get("from"); v != "" {
		from, ok := h.parseDate(w, v)
		if !ok {
			return
		}
		filter.From = &from
	}
	if v := q.Get("to"); v != "" {
		to, ok := h.parseDate(w, v)
		if !ok {
			return
		}
		filter.To = &to
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			h.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			h.respondError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = offset
	}

	txs, err := h.svc.ListTransactions(r.Context(), userID, filter)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	h.respondJSON(w, http.StatusOK, txs)
}

// GetTransaction handles GET /api/transactions/{id}.
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	t, err := h.svc.GetTransaction(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, t)
}

// CreateTransaction handles POST /api/transactions.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req createTransactionRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if !req.Amount.IsPositive() {
		h.respondError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	date, ok := h.parseDate(w, req.Date)
	if !ok {
		return
	}

	t, err := h.svc.CreateTransaction(r.Context(), userID, service.TransactionParams{
		AccountID:   req.AccountID,
		Label:       req.Label,
		Description: req.Description,
		Date:        date,
		Amount:      req.Amount,
		Type:        models.TransactionType(req.Type),
		Currency:    req.Currency,
		IsRecurring: req.IsRecurring,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, t)
}

// UpdateTransaction handles PUT /api/transactions/{id}. Only the provided
// fields change.
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req updateTransactionRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if req.Amount != nil && !req.Amount.IsPositive() {
		h.respondError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	params := service.TransactionUpdateParams{
		AccountID:   req.AccountID,
		Label:       req.Label,
		Description: req.Description,
		Amount:      req.Amount,
	}
	if req.Date != nil {
		date, ok := h.parseDate(w, *req.Date)
		if !ok {
			return
		}
		params.Date = &date
	}
	if req.Type != nil {
		txType := models.TransactionType(*req.Type)
		params.Type = &txType
	}

	t, err := h.svc.UpdateTransaction(r.Context(), userID, mux.Vars(r)["id"], params)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, t)
}

// DeleteTransaction handles DELETE /api/transactions/{id}.
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteTransaction(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}
