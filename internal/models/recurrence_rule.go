package models

import "time"

// RecurrenceRule describes how a recurring transaction repeats. Only monthly
// rules exist for now; DayOfMonth is the posting day.
type RecurrenceRule struct {
	ID         string              `json:"id"`
	UserID     string              `json:"user_id"`
	Frequency  RecurrenceFrequency `json:"frequency"`
	DayOfMonth int                 `json:"day_of_month"`
	StartDate  time.Time           `json:"start_date"`
	EndDate    *time.Time          `json:"end_date,omitempty"`
	Active     bool                `json:"active"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}
