// Package fx fetches daily exchange rates from the ECB reference feed.
package fx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/xevansz/Prognos-Advisor-AI/internal/config"
)

// Client handles integration with the ECB euro foreign exchange reference
// rates feed.
type Client struct {
	url          string
	baseCurrency string
	client       *http.Client
	log          *logrus.Logger
}

// NewClient initializes a new FX client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url:          cfg.FXURL,
		baseCurrency: cfg.BaseCurrency,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// BaseCurrency is the currency the feed quotes against.
func (c *Client) BaseCurrency() string {
	return c.baseCurrency
}

// FetchRates retrieves the current daily reference rates, keyed by currency
// code, quoted against the base currency. The base itself is included at 1.
func (c *Client) FetchRates(ctx context.Context) (map[string]float64, error) {
	body, err := c.sendRequest(ctx)
	if err != nil {
		return nil, err
	}

	rates, err := c.parseXMLResponse(body)
	if err != nil {
		return nil, err
	}
	rates[c.baseCurrency] = 1.0

	c.log.Infof("Fetched %d FX rates against %s", len(rates), c.baseCurrency)
	return rates, nil
}

// sendRequest fetches the raw XML feed
func (c *Client) sendRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	c.log.Debugf("FX XML response: %d bytes", len(body))

	return body, nil
}

// parseXMLResponse parses the XML feed to extract currency rates
func (c *Client) parseXMLResponse(rawBody []byte) (map[string]float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %v", err)
	}

	cubes := doc.FindElements("//Cube[@currency]")
	if len(cubes) == 0 {
		return nil, fmt.Errorf("no rate data found in XML")
	}

	rates := make(map[string]float64, len(cubes))
	for _, cube := range cubes {
		currency := cube.SelectAttrValue("currency", "")
		rateStr := cube.SelectAttrValue("rate", "")
		if currency == "" || rateStr == "" {
			continue
		}
		rate, err := strconv.ParseFloat(rateStr, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate for %s: %v", currency, err)
		}
		rates[currency] = rate
	}
	return rates, nil
}
