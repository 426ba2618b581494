package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xevansz/Prognos-Advisor-AI/internal/config"
	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

func fxService(store *fakeStore, rates *fakeRates) *Service {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	cfg := &config.Config{BaseCurrency: "EUR", MaxReportsPerDay: 5, DefaultAnnualReturn: 0.07}
	return NewService(store, log, cfg, &fakeMacro{state: models.MacroSideways}, nil, rates)
}

func TestGetRatesServesFreshCache(t *testing.T) {
	cached := &models.FXRate{
		ID:           "fx-1",
		BaseCurrency: "EUR",
		Rates:        map[string]float64{"USD": 1.08},
		FetchedAt:    time.Now().UTC().Add(-time.Hour),
	}
	store := &fakeStore{fxRate: cached}
	rates := &fakeRates{err: errors.New("feed should not be called")}
	svc := fxService(store, rates)

	got, err := svc.GetRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fx-1", got.ID)
}

func TestGetRatesRefreshesStaleCache(t *testing.T) {
	store := &fakeStore{fxRate: &models.FXRate{
		ID:           "fx-old",
		BaseCurrency: "EUR",
		Rates:        map[string]float64{"USD": 1.00},
		FetchedAt:    time.Now().UTC().Add(-96 * time.Hour),
	}}
	rates := &fakeRates{rates: map[string]float64{"USD": 1.12, "GBP": 0.85}}
	svc := fxService(store, rates)

	got, err := svc.GetRates(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, "fx-old", got.ID)
	assert.Equal(t, 1.12, got.Rates["USD"])
	assert.Equal(t, got.ID, store.fxRate.ID)
}

func TestGetRatesServesStaleOnFeedFailure(t *testing.T) {
	stale := &models.FXRate{
		ID:           "fx-stale",
		BaseCurrency: "EUR",
		Rates:        map[string]float64{"USD": 1.05},
		FetchedAt:    time.Now().UTC().Add(-120 * time.Hour),
	}
	store := &fakeStore{fxRate: stale}
	rates := &fakeRates{err: errors.New("feed down")}
	svc := fxService(store, rates)

	got, err := svc.GetRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fx-stale", got.ID)
}

func TestGetRatesFailsWithoutAnySnapshot(t *testing.T) {
	store := &fakeStore{}
	rates := &fakeRates{err: errors.New("feed down")}
	svc := fxService(store, rates)

	_, err := svc.GetRates(context.Background())
	assert.Error(t, err)
}

func TestConvertSameCurrency(t *testing.T) {
	svc := fxService(&fakeStore{}, &fakeRates{err: errors.New("feed should not be called")})

	amount := decimal.NewFromInt(250)
	got, err := svc.Convert(context.Background(), amount, "EUR", "EUR")
	require.NoError(t, err)
	assert.True(t, amount.Equal(got))
}

func TestConvertThroughBase(t *testing.T) {
	store := &fakeStore{fxRate: &models.FXRate{
		BaseCurrency: "EUR",
		Rates:        map[string]float64{"USD": 1.10, "GBP": 0.88},
		FetchedAt:    time.Now().UTC(),
	}}
	svc := fxService(store, &fakeRates{})

	// 110 USD -> 100 EUR -> 88 GBP.
	got, err := svc.Convert(context.Background(), decimal.NewFromInt(110), "USD", "GBP")
	require.NoError(t, err)
	f, _ := got.Float64()
	assert.InDelta(t, 88.0, f, 1e-9)
}

func TestConvertUnknownCurrency(t *testing.T) {
	store := &fakeStore{fxRate: &models.FXRate{
		BaseCurrency: "EUR",
		Rates:        map[string]float64{"USD": 1.10},
		FetchedAt:    time.Now().UTC(),
	}}
	svc := fxService(store, &fakeRates{})

	_, err := svc.Convert(context.Background(), decimal.NewFromInt(10), "XXX", "USD")
	assert.Error(t, err)
}
