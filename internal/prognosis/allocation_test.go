package prognosis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

func allocationSum(alloc map[models.AssetClass]float64) float64 {
	sum := 0.0
	for _, v := range alloc {
		sum += v
	}
	return sum
}

func TestRecommendAllocation_RecommendedSumsToOne(t *testing.T) {
	appetites := []models.RiskAppetite{models.AppetiteConservative, models.AppetiteModerate, models.AppetiteAggressive}
	macros := []models.MacroState{models.MacroBull, models.MacroBear, models.MacroRecession, models.MacroSideways}

	for _, appetite := range appetites {
		for _, macro := range macros {
			for age := 18; age <= 90; age += 9 {
				for score := 0; score <= 100; score += 20 {
					for _, horizon := range []int{1, 5, 12, 20} {
						got := RecommendAllocation(score, appetite, nil, macro, age, horizon)
						require.InDelta(t, 1.0, allocationSum(got.Recommended), 1e-6,
							"appetite=%s macro=%s age=%d score=%d horizon=%d",
							appetite, macro, age, score, horizon)
						for class, frac := range got.Recommended {
							require.GreaterOrEqual(t, frac, 0.0, "class %s", class)
						}
					}
				}
			}
		}
	}
}

func TestRecommendAllocation_AggressiveMismatchProducesAlternative(t *testing.T) {
	// Age 30, aggressive appetite, risk score 20: capacity 0.2 forces the
	// mismatch branch.
	got := RecommendAllocation(20, models.AppetiteAggressive, nil, models.MacroSideways, 30, 10)

	require.NotNil(t, got.AggressiveAlternative)
	assert.InDelta(t, 0.65, got.Recommended[models.AssetEquity], 1e-9)
	assert.InDelta(t, 0.15, got.Recommended[models.AssetDebt], 1e-9)
	assert.InDelta(t, 0.15, got.Recommended[models.AssetCash], 1e-9)
	assert.InDelta(t, 0.05, got.Recommended[models.AssetOther], 1e-9)

	alt := got.AggressiveAlternative
	assert.InDelta(t, 0.75, alt[models.AssetEquity], 1e-9)
	assert.InDelta(t, 0.10, alt[models.AssetDebt], 1e-9)
	assert.InDelta(t, 0.05, alt[models.AssetCash], 1e-9)
	assert.InDelta(t, 0.05, alt[models.AssetOther], 1e-9)
	// The alternative is quoted against a fixed 100 and is not
	// renormalized, so it does not sum to one.
	assert.InDelta(t, 0.95, allocationSum(alt), 1e-9)
}

func TestRecommendAllocation_NoAlternativeWhenCapacityAdequate(t *testing.T) {
	got := RecommendAllocation(80, models.AppetiteAggressive, nil, models.MacroSideways, 30, 10)
	assert.Nil(t, got.AggressiveAlternative)
}

func TestRecommendAllocation_NoAlternativeForConservative(t *testing.T) {
	got := RecommendAllocation(20, models.AppetiteConservative, nil, models.MacroSideways, 30, 10)
	assert.Nil(t, got.AggressiveAlternative)
}

func TestRecommendAllocation_MacroBiasesEquity(t *testing.T) {
	bull := RecommendAllocation(80, models.AppetiteModerate, nil, models.MacroBull, 40, 10)
	bear := RecommendAllocation(80, models.AppetiteModerate, nil, models.MacroBear, 40, 10)
	recession := RecommendAllocation(80, models.AppetiteModerate, nil, models.MacroRecession, 40, 10)

	assert.Greater(t, bull.Recommended[models.AssetEquity], bear.Recommended[models.AssetEquity])
	assert.Greater(t, bear.Recommended[models.AssetEquity], recession.Recommended[models.AssetEquity])
}

func TestRecommendAllocation_GoalPressureReducesEquity(t *testing.T) {
	relaxed := []GoalEvaluation{{GoalPressure: 0.0}}
	squeezed := []GoalEvaluation{{GoalPressure: 1.0}}

	low := RecommendAllocation(80, models.AppetiteModerate, relaxed, models.MacroSideways, 40, 10)
	high := RecommendAllocation(80, models.AppetiteModerate, squeezed, models.MacroSideways, 40, 10)

	assert.Greater(t, low.Recommended[models.AssetEquity], high.Recommended[models.AssetEquity])
}

func TestRecommendAllocation_HorizonAdjustment(t *testing.T) {
	short := RecommendAllocation(80, models.AppetiteModerate, nil, models.MacroSideways, 40, 2)
	long := RecommendAllocation(80, models.AppetiteModerate, nil, models.MacroSideways, 40, 20)

	assert.Greater(t, long.Recommended[models.AssetEquity], short.Recommended[models.AssetEquity])
}

func TestRecommendAllocation_AgeBaselineClamped(t *testing.T) {
	young := RecommendAllocation(80, models.AppetiteModerate, nil, models.MacroSideways, 10, 10)
	old := RecommendAllocation(80, models.AppetiteModerate, nil, models.MacroSideways, 95, 10)

	// Baseline equity is clamped to [20, 80] before adjustments, and the
	// final figure to [10, 80] of the pre-normalization total.
	assert.LessOrEqual(t, young.Recommended[models.AssetEquity], 0.8)
	assert.GreaterOrEqual(t, old.Recommended[models.AssetEquity], 0.1)
}
