package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

// GetProfile retrieves the user's profile. Returns ErrNotFound when the user
// has not created one yet.
func (r *Repository) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	p := &models.Profile{}
	query := `
		SELECT id, user_id, age, display_name, gender, base_currency, risk_appetite, created_at, updated_at
		FROM prognosis.profiles
		WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Age, &p.DisplayName, &p.Gender,
		&p.BaseCurrency, &p.RiskAppetite, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile for user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// UpsertProfile creates the profile on first write and fully replaces it on
// subsequent writes. One profile per user.
func (r *Repository) UpsertProfile(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO prognosis.profiles
			(id, user_id, age, display_name, gender, base_currency, risk_appetite, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE
		SET age = EXCLUDED.age, display_name = EXCLUDED.display_name,
			gender = EXCLUDED.gender, base_currency = EXCLUDED.base_currency,
			risk_appetite = EXCLUDED.risk_appetite, updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.UserID, p.Age, p.DisplayName, p.Gender, p.BaseCurrency, p.RiskAppetite).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
