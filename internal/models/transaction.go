package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single-entry debit or credit against an account. Amounts
// are always non-negative; direction is carried by Type.
type Transaction struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	AccountID        string          `json:"account_id"`
	Label            string          `json:"label"`
	Description      string          `json:"description,omitempty"`
	Date             time.Time       `json:"date"`
	Amount           decimal.Decimal `json:"amount"`
	Type             TransactionType `json:"type"`
	Currency         string          `json:"currency"`
	IsRecurring      bool            `json:"is_recurring"`
	RecurrenceRuleID string          `json:"recurrence_rule_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
