package prognosis

import (
	"math"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

// Allocation is the recommended asset-class split. Recommended fractions are
// normalized to sum to 1.0. AggressiveAlternative is present only when an
// aggressive appetite collides with low risk capacity; it is intentionally
// not renormalized and may sum to less than 1.0.
type Allocation struct {
	Recommended           map[models.AssetClass]float64 `json:"recommended"`
	AggressiveAlternative map[models.AssetClass]float64 `json:"aggressive_alternative,omitempty"`
}

// RecommendAllocation combines risk capacity, appetite, goal pressure, age,
// time horizon, and the macro market state into a target split across
// equity, debt, cash, and other.
func RecommendAllocation(riskScore int, appetite models.RiskAppetite, evals []GoalEvaluation, macro models.MacroState, age, horizonYears int) Allocation {
	// Age rule baseline: 100 minus age, kept inside sane bounds.
	baseline := clampInt(100-age, 20, 80)

	var horizonAdj int
	switch {
	case horizonYears > 15:
		horizonAdj = 10
	case horizonYears > 10:
		horizonAdj = 5
	case horizonYears < 3:
		horizonAdj = -10
	}

	avgPressure := 0.0
	if len(evals) > 0 {
		for _, e := range evals {
			avgPressure += e.GoalPressure
		}
		avgPressure /= float64(len(evals))
	}
	pressureAdj := -int(math.Round(avgPressure * 15))

	var appetiteAdj int
	switch appetite {
	case models.AppetiteConservative:
		appetiteAdj = -10
	case models.AppetiteAggressive:
		appetiteAdj = 10
	}

	capacity := float64(riskScore) / 100
	var capacityAdj int
	switch {
	case capacity < 0.3:
		capacityAdj = -15
	case capacity < 0.5:
		capacityAdj = -5
	}

	var macroAdj int
	switch macro {
	case models.MacroBull:
		macroAdj = 5
	case models.MacroBear:
		macroAdj = -10
	case models.MacroRecession:
		macroAdj = -15
	}

	equityPct := clampInt(baseline+horizonAdj+pressureAdj+appetiteAdj+capacityAdj+macroAdj, 10, 80)

	var cashPct int
	switch {
	case capacity >= 0.7:
		cashPct = 5
	case capacity >= 0.5:
		cashPct = 10
	default:
		cashPct = 15
	}

	// Five units are reserved for "other" before normalization.
	debtPct := (100 - equityPct) - cashPct - 5
	if debtPct < 5 {
		debtPct = 5
	}

	total := float64(equityPct + debtPct + cashPct + 5)
	recommended := map[models.AssetClass]float64{
		models.AssetEquity: float64(equityPct) / total,
		models.AssetDebt:   float64(debtPct) / total,
		models.AssetCash:   float64(cashPct) / total,
		models.AssetOther:  5 / total,
	}

	var alternative map[models.AssetClass]float64
	if appetite == models.AppetiteAggressive && capacity < 0.5 {
		aggEquity := equityPct + 15
		if aggEquity > 75 {
			aggEquity = 75
		}
		aggDebt := 95 - aggEquity - 5 - 5
		// Deliberately left unnormalized; the shares are quoted against
		// a fixed 100 and the total may fall short of 1.0.
		alternative = map[models.AssetClass]float64{
			models.AssetEquity: float64(aggEquity) / 100,
			models.AssetDebt:   float64(aggDebt) / 100,
			models.AssetCash:   0.05,
			models.AssetOther:  0.05,
		}
	}

	return Allocation{Recommended: recommended, AggressiveAlternative: alternative}
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
