package models

import (
	"fmt"
	"time"
)

// FXRate is a cached snapshot of exchange rates for one base currency. Rates
// map currency code to units per one unit of the base.
type FXRate struct {
	ID           string             `json:"id"`
	BaseCurrency string             `json:"base_currency"`
	Rates        map[string]float64 `json:"rates"`
	FetchedAt    time.Time          `json:"fetched_at"`
}

// Rate returns the units of the given currency per one unit of the base.
func (r *FXRate) Rate(currency string) (float64, error) {
	if currency == r.BaseCurrency {
		return 1.0, nil
	}
	rate, ok := r.Rates[currency]
	if !ok {
		return 0, fmt.Errorf("no rate for currency %s", currency)
	}
	return rate, nil
}
