package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/xevansz/Prognos-Advisor-AI/internal/config"
	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ind  Indicators
		want models.MacroState
	}{
		{
			name: "strong uptrend low vol is bull",
			ind:  Indicators{IndexLevel: 4800, Index200DMA: 4400, ShortRate: 0.03, InflationRate: 0.02, VIXLevel: 15},
			want: models.MacroBull,
		},
		{
			name: "uptrend but elevated vol is sideways",
			ind:  Indicators{IndexLevel: 4800, Index200DMA: 4400, ShortRate: 0.03, InflationRate: 0.02, VIXLevel: 30},
			want: models.MacroSideways,
		},
		{
			name: "downtrend with stress is bear",
			ind:  Indicators{IndexLevel: 4000, Index200DMA: 4400, ShortRate: 0.03, InflationRate: 0.02, VIXLevel: 32},
			want: models.MacroBear,
		},
		{
			name: "deep downtrend without stress is bear",
			ind:  Indicators{IndexLevel: 3900, Index200DMA: 4400, ShortRate: 0.03, InflationRate: 0.02, VIXLevel: 18},
			want: models.MacroBear,
		},
		{
			name: "tight money hot inflation falling index is recession",
			ind:  Indicators{IndexLevel: 4300, Index200DMA: 4400, ShortRate: 0.055, InflationRate: 0.045, VIXLevel: 22},
			want: models.MacroRecession,
		},
		{
			name: "mild uptrend is sideways",
			ind:  Indicators{IndexLevel: 4500, Index200DMA: 4400, ShortRate: 0.045, InflationRate: 0.032, VIXLevel: 18.5},
			want: models.MacroSideways,
		},
		{
			name: "zero moving average is sideways",
			ind:  Indicators{IndexLevel: 4500},
			want: models.MacroSideways,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ind))
		})
	}
}

func newTestClient(url string) *Client {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewClient(&config.Config{MarketURL: url}, log)
}

func TestMacroState_FetchAndClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"index_level":4800,"index_200d_ma":4400,"short_rate":0.03,"inflation_rate":0.02,"vix_level":15}`))
	}))
	defer srv.Close()

	got := newTestClient(srv.URL).MacroState(context.Background())
	assert.Equal(t, models.MacroBull, got)
}

func TestMacroState_ServerErrorFallsBackToSideways(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	got := newTestClient(srv.URL).MacroState(context.Background())
	assert.Equal(t, models.MacroSideways, got)
}

func TestMacroState_MalformedBodyFallsBackToSideways(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	got := newTestClient(srv.URL).MacroState(context.Background())
	assert.Equal(t, models.MacroSideways, got)
}

func TestMacroState_UnconfiguredFallsBackToSideways(t *testing.T) {
	got := newTestClient("").MacroState(context.Background())
	assert.Equal(t, models.MacroSideways, got)
}
