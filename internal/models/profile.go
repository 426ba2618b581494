package models

import "time"

// Profile holds the planning inputs the prognosis engine needs per user.
type Profile struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	Age          int          `json:"age"`
	DisplayName  string       `json:"display_name,omitempty"`
	Gender       string       `json:"gender,omitempty"`
	BaseCurrency string       `json:"base_currency"`
	RiskAppetite RiskAppetite `json:"risk_appetite"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
