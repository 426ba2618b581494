package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

type fakeJobStore struct {
	rules     []models.RecurrenceRule
	templates map[string]*models.Transaction
	posted    map[string]bool
	created   []models.Transaction
}

func (f *fakeJobStore) DueRecurrenceRules(ctx context.Context, now time.Time) ([]models.RecurrenceRule, error) {
	return f.rules, nil
}

func (f *fakeJobStore) HasTransactionForRuleInMonth(ctx context.Context, ruleID string, month time.Time) (bool, error) {
	return f.posted[ruleID], nil
}

func (f *fakeJobStore) LatestTransactionForRule(ctx context.Context, ruleID string) (*models.Transaction, error) {
	t, ok := f.templates[ruleID]
	if !ok {
		return nil, errors.New("no template")
	}
	return t, nil
}

func (f *fakeJobStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	f.created = append(f.created, *t)
	return nil
}

type fakeRefresher struct {
	calls int
}

func (f *fakeRefresher) GetRates(ctx context.Context) (*models.FXRate, error) {
	f.calls++
	return &models.FXRate{BaseCurrency: "EUR"}, nil
}

func testScheduler(store *fakeJobStore) *Scheduler {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewScheduler(store, &fakeRefresher{}, log)
}

func TestPostRecurringClonesTemplate(t *testing.T) {
	template := &models.Transaction{
		ID:        "t-1",
		UserID:    "user-1",
		AccountID: "acc-1",
		Label:     "Rent",
		Amount:    decimal.NewFromInt(1200),
		Type:      models.TransactionDebit,
		Currency:  "EUR",
		Date:      time.Date(2026, 7, 28, 0, 0, 0, 0, time.UTC),
	}
	store := &fakeJobStore{
		rules:     []models.RecurrenceRule{{ID: "rule-1", UserID: "user-1", DayOfMonth: 28, Active: true}},
		templates: map[string]*models.Transaction{"rule-1": template},
		posted:    map[string]bool{},
	}
	s := testScheduler(store)

	now := time.Date(2026, 8, 28, 0, 15, 0, 0, time.UTC)
	require.NoError(t, s.PostRecurring(context.Background(), now))

	require.Len(t, store.created, 1)
	got := store.created[0]
	assert.NotEqual(t, template.ID, got.ID)
	assert.Equal(t, "Rent", got.Label)
	assert.True(t, template.Amount.Equal(got.Amount))
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), got.Date)
	assert.Equal(t, "rule-1", got.RecurrenceRuleID)
	assert.True(t, got.IsRecurring)
}

func TestPostRecurringSkipsAlreadyPosted(t *testing.T) {
	store := &fakeJobStore{
		rules:     []models.RecurrenceRule{{ID: "rule-1", DayOfMonth: 1, Active: true}},
		templates: map[string]*models.Transaction{},
		posted:    map[string]bool{"rule-1": true},
	}
	s := testScheduler(store)

	require.NoError(t, s.PostRecurring(context.Background(), time.Now().UTC()))
	assert.Empty(t, store.created)
}

func TestPostRecurringSkipsRuleWithoutTemplate(t *testing.T) {
	store := &fakeJobStore{
		rules:     []models.RecurrenceRule{{ID: "rule-1", DayOfMonth: 1, Active: true}},
		templates: map[string]*models.Transaction{},
		posted:    map[string]bool{},
	}
	s := testScheduler(store)

	require.NoError(t, s.PostRecurring(context.Background(), time.Now().UTC()))
	assert.Empty(t, store.created)
}
