package prognosis

import (
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

const (
	// DefaultAnnualReturn is the expected annual return assumption used
	// when the caller does not override it.
	DefaultAnnualReturn = 0.07

	simulationTrials = 500
	returnStdDev     = 0.15

	// Trials whose simulated monthly rate falls at or below this floor are
	// discarded: they count neither as success nor failure, and the
	// probability denominator stays at simulationTrials.
	discardMonthlyRate = -0.05
)

// GoalEvaluation is the per-goal output of the evaluator.
type GoalEvaluation struct {
	GoalID                 string            `json:"goal_id"`
	Name                   string            `json:"name"`
	Status                 models.GoalStatus `json:"status"`
	MonthsRemaining        int               `json:"months_remaining"`
	ProjectedValue         float64           `json:"projected_value"`
	SuccessProbability     float64           `json:"success_probability"`
	GoalPressure           float64           `json:"goal_pressure"`
	RequiredMonthlySavings float64           `json:"required_monthly_savings"`
	ActualMonthlySavings   float64           `json:"actual_monthly_savings"`
}

// EvaluateGoals projects each goal's funding trajectory and validates it with
// a 500-trial Monte-Carlo simulation over normally distributed annual
// returns. Goals without a target date are skipped. monthlySavings is
// credits minus debits over the trailing 30 days and may be negative;
// currentSavings is the aggregate liquid balance. rng is injected so tests
// can fix the seed; production callers pass a freshly time-seeded source.
func EvaluateGoals(goals []models.Goal, monthlySavings, currentSavings decimal.Decimal, expectedReturn float64, now time.Time, rng *rand.Rand) []GoalEvaluation {
	savings, _ := monthlySavings.Float64()
	principal, _ := currentSavings.Float64()

	results := make([]GoalEvaluation, 0, len(goals))
	for _, goal := range goals {
		if goal.TargetDate.IsZero() {
			continue
		}

		months := monthsBetween(now, goal.TargetDate)
		target, _ := goal.TargetAmount.Float64()

		projected := futureValue(principal, savings, expectedReturn/12, months)

		successes := 0
		for i := 0; i < simulationTrials; i++ {
			annual := rng.NormFloat64()*returnStdDev + expectedReturn
			monthlyRate := annual / 12
			if monthlyRate <= discardMonthlyRate {
				continue
			}
			if futureValue(principal, savings, monthlyRate, months) >= target {
				successes++
			}
		}
		probability := float64(successes) / simulationTrials

		required, _ := goal.TargetAmount.Div(decimal.NewFromInt(int64(months))).Float64()

		results = append(results, GoalEvaluation{
			GoalID:                 goal.ID,
			Name:                   goal.Name,
			Status:                 goalStatus(probability),
			MonthsRemaining:        months,
			ProjectedValue:         projected,
			SuccessProbability:     probability,
			GoalPressure:           1 - probability,
			RequiredMonthlySavings: required,
			ActualMonthlySavings:   savings,
		})
	}
	return results
}

// futureValue compounds a principal plus a fixed monthly contribution at the
// given monthly rate. The zero-rate branch avoids the division in the
// annuity term.
func futureValue(principal, monthly, monthlyRate float64, months int) float64 {
	if monthlyRate == 0 {
		return principal + monthly*float64(months)
	}
	growth := math.Pow(1+monthlyRate, float64(months))
	return principal*growth + monthly*(growth-1)/monthlyRate
}

func goalStatus(probability float64) models.GoalStatus {
	switch {
	case probability >= 0.75:
		return models.GoalOnTrack
	case probability >= 0.40:
		return models.GoalAtRisk
	default:
		return models.GoalUnrealistic
	}
}

// monthsBetween counts calendar months from now to the target date, never
// returning less than one.
func monthsBetween(now, target time.Time) int {
	months := (target.Year()-now.Year())*12 + int(target.Month()) - int(now.Month())
	if months < 1 {
		months = 1
	}
	return months
}

// HorizonYears is the time horizon in whole years to the nearest dated goal,
// defaulting to ten years when no goal carries a date.
func HorizonYears(goals []models.Goal, now time.Time) int {
	nearest := 0
	for _, goal := range goals {
		if goal.TargetDate.IsZero() {
			continue
		}
		months := monthsBetween(now, goal.TargetDate)
		if nearest == 0 || months < nearest {
			nearest = months
		}
	}
	if nearest == 0 {
		return 10
	}
	years := nearest / 12
	if years < 1 {
		years = 1
	}
	return years
}
