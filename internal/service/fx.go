package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
	"github.com/xevansz/Prognos-Advisor-AI/internal/repository"
)

// fxMaxAge is how long a cached rate snapshot stays usable. The reference
// feed only publishes on business days, so the window spans a weekend.
const fxMaxAge = 72 * time.Hour

// GetRates returns the current exchange rate snapshot for the configured
// base currency, refreshing from the external feed when the cached copy is
// older than three days or missing.
func (s *Service) GetRates(ctx context.Context) (*models.FXRate, error) {
	cached, err := s.repo.LatestFXRate(ctx, s.fx.BaseCurrency())
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if cached != nil && time.Since(cached.FetchedAt) < fxMaxAge {
		return cached, nil
	}

	rates, fetchErr := s.fx.FetchRates(ctx)
	if fetchErr != nil {
		// Serve the stale snapshot rather than fail the request.
		if cached != nil {
			s.log.Warnf("FX refresh failed, serving stale rates from %s: %v", cached.FetchedAt.Format(time.RFC3339), fetchErr)
			return cached, nil
		}
		return nil, fmt.Errorf("failed to fetch exchange rates: %w", fetchErr)
	}

	rate := &models.FXRate{
		ID:           uuid.NewString(),
		BaseCurrency: s.fx.BaseCurrency(),
		Rates:        rates,
		FetchedAt:    time.Now().UTC(),
	}
	if err := s.repo.InsertFXRate(ctx, rate); err != nil {
		return nil, err
	}

	s.log.Infof("FX rates refreshed: %d currencies against %s", len(rate.Rates), rate.BaseCurrency)
	return rate, nil
}

// Convert converts an amount between two currencies through the base
// currency using the latest rate snapshot. Same-currency conversions are
// returned unchanged without touching the rate table.
func (s *Service) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	snapshot, err := s.GetRates(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	fromRate, err := snapshot.Rate(from)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := snapshot.Rate(to)
	if err != nil {
		return decimal.Zero, err
	}

	// amount/fromRate is in base units; multiplying by toRate lands in the
	// target currency.
	base := amount.Div(decimal.NewFromFloat(fromRate))
	return base.Mul(decimal.NewFromFloat(toRate)), nil
}
