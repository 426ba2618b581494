package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

// LatestFXRate returns the most recent cached rate snapshot for a base
// currency, or ErrNotFound when nothing has been fetched yet.
func (r *Repository) LatestFXRate(ctx context.Context, baseCurrency string) (*models.FXRate, error) {
	rate := &models.FXRate{}
	var ratesJSON []byte
	query := `
		SELECT id, base_currency, rates, fetched_at
		FROM prognosis.fx_rates
		WHERE base_currency = $1
		ORDER BY fetched_at DESC
		LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, baseCurrency).Scan(
		&rate.ID, &rate.BaseCurrency, &ratesJSON, &rate.FetchedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("fx rates for %s: %w", baseCurrency, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fx rates: %w", err)
	}
	if err := json.Unmarshal(ratesJSON, &rate.Rates); err != nil {
		return nil, fmt.Errorf("failed to decode fx rates: %w", err)
	}
	return rate, nil
}

// InsertFXRate appends a new rate snapshot.
func (r *Repository) InsertFXRate(ctx context.Context, rate *models.FXRate) error {
	ratesJSON, err := json.Marshal(rate.Rates)
	if err != nil {
		return fmt.Errorf("failed to encode fx rates: %w", err)
	}
	query := `
		INSERT INTO prognosis.fx_rates (id, base_currency, rates, fetched_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, rate.ID, rate.BaseCurrency, ratesJSON, rate.FetchedAt); err != nil {
		return fmt.Errorf("failed to insert fx rates: %w", err)
	}
	return nil
}
