package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xevansz/Prognos-Advisor-AI/internal/config"
	"github.com/xevansz/Prognos-Advisor-AI/internal/integrations/narrator"
	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
	"github.com/xevansz/Prognos-Advisor-AI/internal/repository"
)

// Sentinel errors surfaced to the HTTP layer.
var (
	// ErrProfileRequired is returned when a prognosis is requested before
	// the user has saved a risk profile.
	ErrProfileRequired = errors.New("user profile required")

	// ErrQuotaExceeded is returned when the daily report quota is spent
	// and no cached report exists to fall back on.
	ErrQuotaExceeded = errors.New("daily report quota exceeded")
)

// Store is the persistence surface the service depends on. It is
// implemented by *repository.Repository.
type Store interface {
	UpsertUser(ctx context.Context, userID string) error

	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error

	ListAccounts(ctx context.Context, userID string) ([]models.Account, error)
	GetAccount(ctx context.Context, accountID, userID string) (*models.Account, error)
	CreateAccount(ctx context.Context, account *models.Account) error
	UpdateAccount(ctx context.Context, account *models.Account) error
	DeleteAccount(ctx context.Context, accountID, userID string) error

	ListTransactions(ctx context.Context, userID string, filter repository.TransactionFilter) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, transactionID, userID string) (*models.Transaction, error)
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	UpdateTransaction(ctx context.Context, old, updated *models.Transaction) error
	DeleteTransaction(ctx context.Context, tx *models.Transaction) error

	CreateRecurrenceRule(ctx context.Context, rule *models.RecurrenceRule) error
	DueRecurrenceRules(ctx context.Context, now time.Time) ([]models.RecurrenceRule, error)
	HasTransactionForRuleInMonth(ctx context.Context, ruleID string, month time.Time) (bool, error)
	LatestTransactionForRule(ctx context.Context, ruleID string) (*models.Transaction, error)

	ListGoals(ctx context.Context, userID string) ([]models.Goal, error)
	GetGoal(ctx context.Context, goalID, userID string) (*models.Goal, error)
	CreateGoal(ctx context.Context, goal *models.Goal) error
	UpdateGoal(ctx context.Context, goal *models.Goal) error
	DeleteGoal(ctx context.Context, goalID, userID string) error

	GetReport(ctx context.Context, userID string) (*models.PrognosisReport, error)
	WithUserLock(ctx context.Context, userID string, fn func(*sql.Tx) error) error
	UpsertReportTx(ctx context.Context, tx *sql.Tx, report *models.PrognosisReport) error
	UsageCountTx(ctx context.Context, tx *sql.Tx, userID string, day time.Time) (int, error)
	IncrementUsageTx(ctx context.Context, tx *sql.Tx, id, userID string, day time.Time) (int, error)

	LatestFXRate(ctx context.Context, base string) (*models.FXRate, error)
	InsertFXRate(ctx context.Context, rate *models.FXRate) error
}

// MacroSource reports the current macroeconomic regime.
type MacroSource interface {
	MacroState(ctx context.Context) models.MacroState
}

// NarrativeGenerator produces the natural-language body of a report.
type NarrativeGenerator interface {
	Generate(ctx context.Context, input narrator.Input) (models.ReportContent, error)
}

// RateSource fetches a fresh currency rate table from an external feed.
type RateSource interface {
	BaseCurrency() string
	FetchRates(ctx context.Context) (map[string]float64, error)
}

// Service handles business logic
type Service struct {
	repo     Store
	log      *logrus.Logger
	config   *config.Config
	market   MacroSource
	narrator NarrativeGenerator
	fx       RateSource
}

// NewService initializes a new service. The narrator may be nil, in which
// case every report falls back to the deterministic template.
func NewService(repo Store, log *logrus.Logger, cfg *config.Config, market MacroSource, narr NarrativeGenerator, fx RateSource) *Service {
	return &Service{
		repo:     repo,
		log:      log,
		config:   cfg,
		market:   market,
		narrator: narr,
		fx:       fx,
	}
}
