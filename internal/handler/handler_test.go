package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xevansz/Prognos-Advisor-AI/internal/config"
	"github.com/xevansz/Prognos-Advisor-AI/internal/middleware"
	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
	"github.com/xevansz/Prognos-Advisor-AI/internal/repository"
	"github.com/xevansz/Prognos-Advisor-AI/internal/service"
)

// stubStore satisfies service.Store with empty data so handler tests can
// exercise validation and error mapping without a database.
type stubStore struct {
	usage  int
	report *models.PrognosisReport
}

func (s *stubStore) UpsertUser(ctx context.Context, userID string) error { return nil }

func (s *stubStore) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	return nil, repository.ErrNotFound
}

func (s *stubStore) UpsertProfile(ctx context.Context, p *models.Profile) error { return nil }

func (s *stubStore) ListAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	return nil, nil
}

func (s *stubStore) GetAccount(ctx context.Context, accountID, userID string) (*models.Account, error) {
	return nil, repository.ErrNotFound
}

func (s *stubStore) CreateAccount(ctx context.Context, a *models.Account) error { return nil }

func (s *stubStore) UpdateAccount(ctx context.Context, a *models.Account) error { return nil }

func (s *stubStore) DeleteAccount(ctx context.Context, accountID, userID string) error {
	return repository.ErrNotFound
}

func (s *stubStore) ListTransactions(ctx context.Context, userID string, filter repository.TransactionFilter) ([]models.Transaction, error) {
	return nil, nil
}

func (s *stubStore) GetTransaction(ctx context.Context, transactionID, userID string) (*models.Transaction, error) {
	return nil, repository.ErrNotFound
}

func (s *stubStore) CreateTransaction(ctx context.Context, t *models.Transaction) error { return nil }

func (s *stubStore) UpdateTransaction(ctx context.Context, old, updated *models.Transaction) error {
	return nil
}

func (s *stubStore) DeleteTransaction(ctx context.Context, t *models.Transaction) error { return nil }

func (s *stubStore) CreateRecurrenceRule(ctx context.Context, rule *models.RecurrenceRule) error {
	return nil
}

func (s *stubStore) DueRecurrenceRules(ctx context.Context, now time.Time) ([]models.RecurrenceRule, error) {
	return nil, nil
}

func (s *stubStore) HasTransactionForRuleInMonth(ctx context.Context, ruleID string, month time.Time) (bool, error) {
	return false, nil
}

func (s *stubStore) LatestTransactionForRule(ctx context.Context, ruleID string) (*models.Transaction, error) {
	return nil, repository.ErrNotFound
}

func (s *stubStore) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	return nil, nil
}

func (s *stubStore) GetGoal(ctx context.Context, goalID, userID string) (*models.Goal, error) {
	return nil, repository.ErrNotFound
}

func (s *stubStore) CreateGoal(ctx context.Context, g *models.Goal) error { return nil }

func (s *stubStore) UpdateGoal(ctx context.Context, g *models.Goal) error { return nil }

func (s *stubStore) DeleteGoal(ctx context.Context, goalID, userID string) error { return nil }

func (s *stubStore) GetReport(ctx context.Context, userID string) (*models.PrognosisReport, error) {
	if s.report == nil {
		return nil, repository.ErrNotFound
	}
	return s.report, nil
}

func (s *stubStore) WithUserLock(ctx context.Context, userID string, fn func(*sql.Tx) error) error {
	return fn(nil)
}

func (s *stubStore) UpsertReportTx(ctx context.Context, tx *sql.Tx, report *models.PrognosisReport) error {
	s.report = report
	return nil
}

func (s *stubStore) UsageCountTx(ctx context.Context, tx *sql.Tx, userID string, day time.Time) (int, error) {
	return s.usage, nil
}

func (s *stubStore) IncrementUsageTx(ctx context.Context, tx *sql.Tx, id, userID string, day time.Time) (int, error) {
	s.usage++
	return s.usage, nil
}

func (s *stubStore) LatestFXRate(ctx context.Context, base string) (*models.FXRate, error) {
	return nil, repository.ErrNotFound
}

func (s *stubStore) InsertFXRate(ctx context.Context, rate *models.FXRate) error { return nil }

type stubMacro struct{}

func (stubMacro) MacroState(ctx context.Context) models.MacroState { return models.MacroSideways }

type stubRates struct{}

func (stubRates) BaseCurrency() string { return "EUR" }

func (stubRates) FetchRates(ctx context.Context) (map[string]float64, error) {
	return map[string]float64{"USD": 1.1}, nil
}

func newTestHandler(store *stubStore) *Handler {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	cfg := &config.Config{
		BaseCurrency:        "EUR",
		RateLimitEnabled:    true,
		MaxReportsPerDay:    5,
		DefaultAnnualReturn: 0.07,
	}
	svc := service.NewService(store, log, cfg, stubMacro{}, nil, stubRates{})
	return NewHandler(svc, log, cfg)
}

func authedRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return r.WithContext(middleware.WithUserID(r.Context(), "user-1"))
}

func TestHealth(t *testing.T) {
	h := newTestHandler(&stubStore{})
	w := httptest.NewRecorder()

	h.Health(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestCreateAccountRejectsUnauthenticated(t *testing.T) {
	h := newTestHandler(&stubStore{})
	w := httptest.NewRecorder()

	r := httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(`{"name":"Main","type":"bank","currency":"EUR"}`))
	h.CreateAccount(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAccountValidation(t *testing.T) {
	h := newTestHandler(&stubStore{})

	cases := map[string]string{
		"missing name": `{"type":"bank","currency":"EUR"}`,
		"bad type":     `{"name":"Main","type":"wallet","currency":"EUR"}`,
		"bad currency": `{"name":"Main","type":"bank","currency":"EURO"}`,
		"not json":     `{{{`,
	}
	for name, body := range cases {
		w := httptest.NewRecorder()
		h.CreateAccount(w, authedRequest(http.MethodPost, "/api/accounts", body))
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestCreateAccountSuccess(t *testing.T) {
	h := newTestHandler(&stubStore{})
	w := httptest.NewRecorder()

	h.CreateAccount(w, authedRequest(http.MethodPost, "/api/accounts", `{"name":"Main","type":"bank","currency":"EUR","initial_balance":1500}`))

	require.Equal(t, http.StatusCreated, w.Code)
	var account models.Account
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &account))
	assert.Equal(t, "user-1", account.UserID)
	assert.Equal(t, models.AccountBank, account.Type)
	assert.NotEmpty(t, account.ID)
}

func TestGetAccountNotFound(t *testing.T) {
	h := newTestHandler(&stubStore{})
	w := httptest.NewRecorder()

	r := authedRequest(http.MethodGet, "/api/accounts/0c9a7b9e-0000-0000-0000-000000000000", "")
	r = mux.SetURLVars(r, map[string]string{"id": "0c9a7b9e-0000-0000-0000-000000000000"})
	h.GetAccount(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateTransactionRejectsBadDate(t *testing.T) {
	h := newTestHandler(&stubStore{})
	w := httptest.NewRecorder()

	body := `{"account_id":"0c9a7b9e-0000-4000-8000-000000000000","label":"Rent","date":"15-08-2026","amount":100,"type":"debit"}`
	h.CreateTransaction(w, authedRequest(http.MethodPost, "/api/transactions", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "YYYY-MM-DD")
}

func TestCreateTransactionRejectsNonPositiveAmount(t *testing.T) {
	h := newTestHandler(&stubStore{})
	w := httptest.NewRecorder()

	body := `{"account_id":"0c9a7b9e-0000-4000-8000-000000000000","label":"Rent","date":"2026-08-15","amount":0,"type":"debit"}`
	h.CreateTransaction(w, authedRequest(http.MethodPost, "/api/transactions", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "positive")
}

func TestListTransactionsRejectsBadLimit(t *testing.T) {
	h := newTestHandler(&stubStore{})
	w := httptest.NewRecorder()

	h.ListTransactions(w, authedRequest(http.MethodGet, "/api/transactions?limit=zero", ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTransactionsEmptyIsArray(t *testing.T) {
	h := newTestHandler(&stubStore{})
	w := httptest.NewRecorder()

	h.ListTransactions(w, authedRequest(http.MethodGet, "/api/transactions", ""))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestSaveProfileValidatesAge(t *testing.T) {
	h := newTestHandler(&stubStore{})
	w := httptest.NewRecorder()

	h.SaveProfile(w, authedRequest(http.MethodPut, "/api/profile", `{"age":7}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGeneratePrognosisWithoutProfile(t *testing.T) {
	h := newTestHandler(&stubStore{})
	w := httptest.NewRecorder()

	h.GeneratePrognosis(w, authedRequest(http.MethodPost, "/api/prognosis/refresh", ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "profile")
}

func TestGeneratePrognosisQuotaExceeded(t *testing.T) {
	store := &stubStore{usage: 5}
	h := newTestHandler(store)
	w := httptest.NewRecorder()

	h.GeneratePrognosis(w, authedRequest(http.MethodPost, "/api/prognosis/refresh", ""))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestGetCurrentPrognosisEmpty(t *testing.T) {
	h := newTestHandler(&stubStore{})
	w := httptest.NewRecorder()

	h.GetCurrentPrognosis(w, authedRequest(http.MethodGet, "/api/prognosis/current", ""))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", strings.TrimSpace(w.Body.String()))
}
