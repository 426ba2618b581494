package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xevansz/Prognos-Advisor-AI/internal/integrations/narrator"
	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
	"github.com/xevansz/Prognos-Advisor-AI/internal/prognosis"
	"github.com/xevansz/Prognos-Advisor-AI/internal/repository"
)

const (
	macroTimeout    = 10 * time.Second
	narratorTimeout = 30 * time.Second

	// txFetchLimit bounds the transaction window read. Sixty days of
	// personal transactions fits comfortably below this.
	txFetchLimit = 5000
)

// PrognosisResult is the outcome of a generation request. When the daily
// quota is spent and a cached report exists, Report carries the cached body
// and RateLimited is true; the analytic sections are omitted.
type PrognosisResult struct {
	Report      models.ReportContent       `json:"report_json"`
	Risk        *prognosis.RiskMetrics     `json:"risk,omitempty"`
	Goals       []prognosis.GoalEvaluation `json:"goals,omitempty"`
	Allocation  *prognosis.Allocation      `json:"allocation,omitempty"`
	MacroState  models.MacroState          `json:"macro_state,omitempty"`
	GeneratedAt time.Time                  `json:"generated_at"`
	RateLimited bool                       `json:"rate_limited"`
}

// GetCurrentPrognosis returns the user's cached report, or nil when no
// report has been generated yet.
func (s *Service) GetCurrentPrognosis(ctx context.Context, userID string) (*PrognosisResult, error) {
	report, err := s.repo.GetReport(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &PrognosisResult{
		Report:      report.Report,
		GeneratedAt: report.GeneratedAt,
	}, nil
}

// GeneratePrognosis runs the full pipeline for one user: risk metrics over
// the trailing sixty days, Monte-Carlo goal evaluation, allocation
// recommendation, and narrative assembly. The whole run is serialized per
// user with a session-scoped advisory lock so concurrent requests cannot
// double-spend the daily quota or interleave report writes.
func (s *Service) GeneratePrognosis(ctx context.Context, userID string) (*PrognosisResult, error) {
	var result *PrognosisResult

	err := s.repo.WithUserLock(ctx, userID, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		day := now.Truncate(24 * time.Hour)

		if s.config.RateLimitEnabled {
			count, err := s.repo.UsageCountTx(ctx, tx, userID, day)
			if err != nil {
				return err
			}
			if count >= s.config.MaxReportsPerDay {
				cached, err := s.repo.GetReport(ctx, userID)
				if err != nil {
					if errors.Is(err, repository.ErrNotFound) {
						return ErrQuotaExceeded
					}
					return err
				}
				s.log.Infof("Report quota spent for user %s, serving cached report", userID)
				result = &PrognosisResult{
					Report:      cached.Report,
					GeneratedAt: cached.GeneratedAt,
					RateLimited: true,
				}
				return nil
			}
		}

		profile, err := s.repo.GetProfile(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProfileRequired
			}
			return err
		}

		accounts, err := s.repo.ListAccounts(ctx, userID)
		if err != nil {
			return err
		}
		goals, err := s.repo.ListGoals(ctx, userID)
		if err != nil {
			return err
		}
		goals = s.normalizeGoalCurrencies(ctx, goals, profile.BaseCurrency)

		from := now.AddDate(0, 0, -60)
		txs, err := s.repo.ListTransactions(ctx, userID, repository.TransactionFilter{
			From:  &from,
			Limit: txFetchLimit,
		})
		if err != nil {
			return err
		}

		var liquid []decimal.Decimal
		for _, a := range accounts {
			if a.Type.IsLiquid() {
				liquid = append(liquid, a.Balance)
			}
		}
		totalLiquid := decimal.Zero
		for _, b := range liquid {
			totalLiquid = totalLiquid.Add(b)
		}

		monthlyIncome, monthlySavings := monthlyFlows(txs, now)

		risk := prognosis.ComputeRiskMetrics(txs, liquid, monthlyIncome, now)

		rng := rand.New(rand.NewSource(now.UnixNano()))
		evals := prognosis.EvaluateGoals(goals, monthlySavings, totalLiquid, s.config.DefaultAnnualReturn, now, rng)

		macroCtx, cancel := context.WithTimeout(ctx, macroTimeout)
		macro := s.market.MacroState(macroCtx)
		cancel()

		alloc := prognosis.RecommendAllocation(risk.RiskScore, profile.RiskAppetite, evals, macro, profile.Age, prognosis.HorizonYears(goals, now))

		var previous *models.ReportContent
		if prev, err := s.repo.GetReport(ctx, userID); err == nil {
			previous = &prev.Report
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		input := narrator.Input{
			Profile: narrator.ProfileSummary{
				Age:          profile.Age,
				BaseCurrency: profile.BaseCurrency,
				RiskAppetite: profile.RiskAppetite,
			},
			Risk:           risk,
			Goals:          evals,
			Allocation:     alloc,
			MacroState:     macro,
			PreviousReport: previous,
		}

		content := s.narrate(ctx, userID, input)
		content.ModelVersion = prognosis.ModelVersion

		report := &models.PrognosisReport{
			ID:     uuid.NewString(),
			UserID: userID,
			Report: content,
			InputsSnapshot: models.InputsSnapshot{
				AccountsCount:     len(accounts),
				TransactionsCount: len(txs),
				GoalsCount:        len(goals),
				GeneratedAt:       now,
			},
			GeneratedAt: now,
		}
		if err := s.repo.UpsertReportTx(ctx, tx, report); err != nil {
			return err
		}

		count, err := s.repo.IncrementUsageTx(ctx, tx, uuid.NewString(), userID, day)
		if err != nil {
			return err
		}
		s.log.Infof("Prognosis generated for user %s (report %d today, risk=%d, macro=%s)", userID, count, risk.RiskScore, macro)

		result = &PrognosisResult{
			Report:      content,
			Risk:        &risk,
			Goals:       evals,
			Allocation:  &alloc,
			MacroState:  macro,
			GeneratedAt: now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// narrate asks the narrator for the report body and falls back to the
// deterministic template when the narrator is unavailable or fails.
func (s *Service) narrate(ctx context.Context, userID string, input narrator.Input) models.ReportContent {
	if s.narrator == nil {
		return narrator.Fallback(input)
	}

	genCtx, cancel := context.WithTimeout(ctx, narratorTimeout)
	defer cancel()

	content, err := s.narrator.Generate(genCtx, input)
	if err != nil {
		s.log.Warnf("Narrator failed for user %s, using templated report: %v", userID, err)
		return narrator.Fallback(input)
	}
	return content
}

// normalizeGoalCurrencies converts goal targets into the user's base
// currency so projections compare like with like. A failed conversion
// leaves the target unchanged rather than failing the whole run.
func (s *Service) normalizeGoalCurrencies(ctx context.Context, goals []models.Goal, base string) []models.Goal {
	for i, g := range goals {
		if g.TargetCurrency == "" || g.TargetCurrency == base {
			continue
		}
		converted, err := s.Convert(ctx, g.TargetAmount, g.TargetCurrency, base)
		if err != nil {
			s.log.Warnf("Goal %s: cannot convert %s to %s: %v", g.ID, g.TargetCurrency, base, err)
			continue
		}
		goals[i].TargetAmount = converted
		goals[i].TargetCurrency = base
	}
	return goals
}

// monthlyFlows sums credits and net savings over the trailing thirty days.
// Savings may be negative when spending outpaces income.
func monthlyFlows(txs []models.Transaction, now time.Time) (income, savings decimal.Decimal) {
	cutoff := now.AddDate(0, 0, -30)
	credits := decimal.Zero
	debits := decimal.Zero
	for _, t := range txs {
		if t.Date.Before(cutoff) {
			continue
		}
		switch t.Type {
		case models.TransactionCredit:
			credits = credits.Add(t.Amount)
		case models.TransactionDebit:
			debits = debits.Add(t.Amount)
		}
	}
	return credits, credits.Sub(debits)
}

// describeQuota renders the quota error with the configured cap, used by the
// HTTP layer for the 429 body.
func describeQuota(max int) string {
	return fmt.Sprintf("daily report limit of %d reached", max)
}

// QuotaMessage returns a user-facing description of the daily cap.
func (s *Service) QuotaMessage() string {
	return describeQuota(s.config.MaxReportsPerDay)
}
