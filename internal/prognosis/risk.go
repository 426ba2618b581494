// Package prognosis implements the numeric pipeline behind prognosis reports:
// risk metrics from transaction history, goal feasibility via Monte-Carlo
// simulation, and an asset-allocation recommendation. All functions are pure;
// they never mutate their inputs and hold no state between calls.
package prognosis

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

// ModelVersion tags persisted reports with the formula set that produced
// them. Bump when the scoring or simulation math changes.
const ModelVersion = "prognosis-mc-v2"

// RunwayCap is the display sentinel for unbounded runway. Serialized output
// must never carry a literal infinity.
const RunwayCap = 999.9

const riskWindowDays = 60

// RiskMetrics is the output of the risk estimator. Ratios and rates are
// display floats; all intermediate money math is exact decimal.
type RiskMetrics struct {
	BurnRate       float64 `json:"burn_rate"`
	RunwayMonths   float64 `json:"runway_months"`
	StabilityRatio float64 `json:"stability_ratio"`
	SavingsRatio   float64 `json:"savings_ratio"`
	RiskScore      int     `json:"risk_score"`
	RiskLabel      string  `json:"risk_label"`
}

// ComputeRiskMetrics derives burn rate, runway, stability and savings ratios,
// and a bounded 0-100 risk score from the trailing 60 days of transactions
// and the user's liquid balances. monthlyIncome is the sum of credits over
// the trailing 30 days.
func ComputeRiskMetrics(txs []models.Transaction, liquidBalances []decimal.Decimal, monthlyIncome decimal.Decimal, now time.Time) RiskMetrics {
	totalLiquid := decimal.Zero
	for _, b := range liquidBalances {
		totalLiquid = totalLiquid.Add(b)
	}

	income, _ := monthlyIncome.Float64()

	if len(txs) == 0 {
		runway := 0.0
		if totalLiquid.IsPositive() {
			runway = RunwayCap
		}
		stability := 1.0
		savings := 0.0
		if income > 0 {
			stability = 2.0
			savings = 1.0
		}
		return RiskMetrics{
			BurnRate:       0,
			RunwayMonths:   runway,
			StabilityRatio: stability,
			SavingsRatio:   savings,
			RiskScore:      70,
			RiskLabel:      "Low",
		}
	}

	cutoff := now.AddDate(0, 0, -riskWindowDays)
	totalDebits := decimal.Zero
	for _, tx := range txs {
		if tx.Date.Before(cutoff) {
			continue
		}
		if tx.Type == models.TransactionDebit {
			totalDebits = totalDebits.Add(tx.Amount)
		}
	}

	windowDays := int(now.Sub(cutoff).Hours() / 24)
	if windowDays > riskWindowDays {
		windowDays = riskWindowDays
	}
	if windowDays == 0 {
		windowDays = 30
	}

	// Normalize the window total to a 30-day burn rate.
	burn := totalDebits.Div(decimal.NewFromInt(int64(windowDays))).Mul(decimal.NewFromInt(30))
	burnRate, _ := burn.Float64()

	var runway float64
	switch {
	case burnRate > 0:
		runway, _ = totalLiquid.Div(burn).Float64()
	case totalLiquid.IsPositive():
		runway = RunwayCap
	default:
		runway = 0
	}

	var stability float64
	switch {
	case burnRate > 0:
		stability = income / burnRate
	case income > 0:
		stability = 2.0
	default:
		stability = 1.0
	}

	savings := 0.0
	if income > 0 {
		savings = clamp((income-burnRate)/income, 0, 1)
	}

	// Weighted score. Each term scales by 100 on top of the weight; the
	// label thresholds below are calibrated to exactly this scale.
	score := int(math.Round(
		40*normalize(math.Min(runway, 12), 0, 12)*100 +
			30*normalize(stability, 0.5, 2.0)*100 +
			30*savings*100))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return RiskMetrics{
		BurnRate:       burnRate,
		RunwayMonths:   math.Min(runway, RunwayCap),
		StabilityRatio: round2(stability),
		SavingsRatio:   round2(savings),
		RiskScore:      score,
		RiskLabel:      riskLabel(score),
	}
}

func riskLabel(score int) string {
	switch {
	case score >= 70:
		return "Low"
	case score >= 40:
		return "Moderate"
	default:
		return "High"
	}
}

// normalize maps x into [0,1] against [lo,hi], returning 0.5 for a
// degenerate range.
func normalize(x, lo, hi float64) float64 {
	if hi == lo {
		return 0.5
	}
	return clamp((x-lo)/(hi-lo), 0, 1)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
