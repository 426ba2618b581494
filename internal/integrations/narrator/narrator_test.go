package narrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
	"github.com/xevansz/Prognos-Advisor-AI/internal/prognosis"
)

func sampleInput() Input {
	return Input{
		Profile: ProfileSummary{Age: 30, BaseCurrency: "EUR", RiskAppetite: models.AppetiteModerate},
		Risk: prognosis.RiskMetrics{
			BurnRate:     1500,
			RunwayMonths: 4,
			SavingsRatio: 0.25,
			RiskScore:    82,
			RiskLabel:    "Low",
		},
		Goals: []prognosis.GoalEvaluation{
			{Name: "House deposit", Status: models.GoalOnTrack, SuccessProbability: 0.9, GoalPressure: 0.1},
			{Name: "World trip", Status: models.GoalAtRisk, SuccessProbability: 0.5, GoalPressure: 0.5},
		},
		Allocation: prognosis.Allocation{
			Recommended: map[models.AssetClass]float64{
				models.AssetEquity: 0.65, models.AssetDebt: 0.15,
				models.AssetCash: 0.15, models.AssetOther: 0.05,
			},
		},
		MacroState: models.MacroSideways,
	}
}

func TestFallback_Deterministic(t *testing.T) {
	in := sampleInput()
	first := Fallback(in)
	second := Fallback(in)
	assert.Equal(t, first, second)
}

func TestFallback_Content(t *testing.T) {
	got := Fallback(sampleInput())

	require.Len(t, got.SummaryBullets, 4)
	assert.Contains(t, got.SummaryBullets[0], "low")
	assert.Contains(t, got.SummaryBullets[0], "82")
	assert.Contains(t, got.SummaryBullets[2], "1 of 2 goals")
	assert.Contains(t, got.GoalsSection, "House deposit is on track")
	assert.Contains(t, got.GoalsSection, "90% simulated success")
	assert.Contains(t, got.AllocationSection, "65% equity")
	assert.Equal(t, "This is your first prognosis report.", got.ChangesSinceLast)
	assert.Equal(t, Disclaimer, got.Disclaimer)
}

func TestFallback_WithPreviousReport(t *testing.T) {
	in := sampleInput()
	in.PreviousReport = &models.ReportContent{}

	got := Fallback(in)
	assert.NotEqual(t, "This is your first prognosis report.", got.ChangesSinceLast)
}

func TestFallback_UnboundedRunway(t *testing.T) {
	in := sampleInput()
	in.Risk.RunwayMonths = prognosis.RunwayCap
	in.Goals = nil

	got := Fallback(in)
	assert.Contains(t, got.SummaryBullets[1], "effectively unlimited")
	assert.Equal(t, "No dated goals to evaluate yet.", got.GoalsSection)
}

func TestFallback_AggressiveAlternativeMentioned(t *testing.T) {
	in := sampleInput()
	in.Allocation.AggressiveAlternative = map[models.AssetClass]float64{
		models.AssetEquity: 0.75, models.AssetDebt: 0.10,
		models.AssetCash: 0.05, models.AssetOther: 0.05,
	}

	got := Fallback(in)
	assert.Contains(t, got.AllocationSection, "aggressive alternative")
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripFences(tt.in))
	}
}
