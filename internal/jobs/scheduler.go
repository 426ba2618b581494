package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

// Store is the slice of persistence the scheduler needs.
type Store interface {
	DueRecurrenceRules(ctx context.Context, now time.Time) ([]models.RecurrenceRule, error)
	HasTransactionForRuleInMonth(ctx context.Context, ruleID string, month time.Time) (bool, error)
	LatestTransactionForRule(ctx context.Context, ruleID string) (*models.Transaction, error)
	CreateTransaction(ctx context.Context, t *models.Transaction) error
}

// RateRefresher triggers an exchange rate refresh, typically the service's
// cached GetRates.
type RateRefresher interface {
	GetRates(ctx context.Context) (*models.FXRate, error)
}

// jobTimeout bounds each scheduled run.
const jobTimeout = 5 * time.Minute

// Scheduler drives the background jobs: posting recurring transactions
// shortly after midnight and warming the FX cache each morning.
type Scheduler struct {
	cron  *cron.Cron
	store Store
	rates RateRefresher
	log   *logrus.Logger
}

func NewScheduler(store Store, rates RateRefresher, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(),
		store: store,
		rates: rates,
		log:   log,
	}
}

// Start registers the cron entries and begins running them.
func (s *Scheduler) Start() {
	s.cron.AddFunc("15 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := s.PostRecurring(ctx, time.Now().UTC()); err != nil {
			s.log.Errorf("Recurring transaction run failed: %v", err)
		}
	})
	s.cron.AddFunc("30 6 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if _, err := s.rates.GetRates(ctx); err != nil {
			s.log.Errorf("FX refresh run failed: %v", err)
		}
	})
	s.cron.Start()
	s.log.Info("Background scheduler started")
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// PostRecurring posts one transaction for every recurrence rule due on the
// given day, cloning the most recent transaction of each rule. Rules that
// already posted this month are skipped, so reruns are safe.
func (s *Scheduler) PostRecurring(ctx context.Context, now time.Time) error {
	rules, err := s.store.DueRecurrenceRules(ctx, now)
	if err != nil {
		return err
	}

	posted := 0
	for _, rule := range rules {
		done, err := s.store.HasTransactionForRuleInMonth(ctx, rule.ID, now)
		if err != nil {
			return err
		}
		if done {
			continue
		}

		template, err := s.store.LatestTransactionForRule(ctx, rule.ID)
		if err != nil {
			s.log.Warnf("Recurrence rule %s has no template transaction: %v", rule.ID, err)
			continue
		}

		t := &models.Transaction{
			ID:               uuid.NewString(),
			UserID:           template.UserID,
			AccountID:        template.AccountID,
			Label:            template.Label,
			Description:      template.Description,
			Date:             time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
			Amount:           template.Amount,
			Type:             template.Type,
			Currency:         template.Currency,
			IsRecurring:      true,
			RecurrenceRuleID: rule.ID,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := s.store.CreateTransaction(ctx, t); err != nil {
			return err
		}
		posted++
	}

	if posted > 0 {
		s.log.Infof("Posted %d recurring transactions", posted)
	}
	return nil
}
