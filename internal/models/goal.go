package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target with a deadline. TargetDate may be zero, in which
// case the prognosis engine skips the goal.
type Goal struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Name           string          `json:"name"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
	TargetCurrency string          `json:"target_currency"`
	TargetDate     time.Time       `json:"target_date"`
	Priority       GoalPriority    `json:"priority"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
