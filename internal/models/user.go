package models

import "time"

// User is the shadow row for an externally authenticated user. The ID is the
// JWT subject issued by the identity provider, not a locally generated key.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
