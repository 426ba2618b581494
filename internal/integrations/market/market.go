// Package market classifies the coarse macro market regime used to bias
// allocation recommendations. The classifier never fails: any fetch or
// decode problem degrades to the neutral "sideways" state.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xevansz/Prognos-Advisor-AI/internal/config"
	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

// Indicators is the snapshot of market data the classifier works from.
type Indicators struct {
	IndexLevel    float64 `json:"index_level"`
	Index200DMA   float64 `json:"index_200d_ma"`
	ShortRate     float64 `json:"short_rate"`
	InflationRate float64 `json:"inflation_rate"`
	VIXLevel      float64 `json:"vix_level"`
}

// Client fetches market indicators from an external provider.
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new market data client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.MarketURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// MacroState fetches indicators and classifies the regime. It never returns
// an error; failures fall back to sideways.
func (c *Client) MacroState(ctx context.Context) models.MacroState {
	indicators, err := c.fetchIndicators(ctx)
	if err != nil {
		c.log.Warnf("Macro state fetch failed, defaulting to sideways: %v", err)
		return models.MacroSideways
	}
	state := Classify(indicators)
	c.log.Debugf("Macro state classified as %s", state)
	return state
}

func (c *Client) fetchIndicators(ctx context.Context) (Indicators, error) {
	if c.url == "" {
		return Indicators{}, fmt.Errorf("no market data provider configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Indicators{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Indicators{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Indicators{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var indicators Indicators
	if err := json.NewDecoder(resp.Body).Decode(&indicators); err != nil {
		return Indicators{}, fmt.Errorf("failed to decode indicators: %w", err)
	}
	return indicators, nil
}

// Classify maps indicators to a regime. Recession needs tight money and hot
// inflation under a falling index; bull needs a clear uptrend with calm
// volatility; bear needs a downtrend with either stress or momentum loss.
func Classify(ind Indicators) models.MacroState {
	trendStrength := 0.0
	if ind.Index200DMA > 0 {
		trendStrength = (ind.IndexLevel - ind.Index200DMA) / ind.Index200DMA
	}
	aboveMA := ind.IndexLevel > ind.Index200DMA
	highVolatility := ind.VIXLevel > 25
	highRates := ind.ShortRate > 0.05
	highInflation := ind.InflationRate > 0.04

	switch {
	case highRates && highInflation && !aboveMA:
		return models.MacroRecession
	case aboveMA && trendStrength > 0.05 && !highVolatility:
		return models.MacroBull
	case !aboveMA && (highVolatility || trendStrength < -0.10):
		return models.MacroBear
	default:
		return models.MacroSideways
	}
}
