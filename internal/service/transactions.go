package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
	"github.com/xevansz/Prognos-Advisor-AI/internal/repository"
)

// TransactionParams carries the caller-supplied fields for creating a
// transaction. Currency defaults to the account's currency when empty.
type TransactionParams struct {
	AccountID   string
	Label       string
	Description string
	Date        time.Time
	Amount      decimal.Decimal
	Type        models.TransactionType
	Currency    string
	IsRecurring bool
}

// TransactionUpdateParams carries the optional fields of a transaction
// update.
type TransactionUpdateParams struct {
	AccountID   *string
	Label       *string
	Description *string
	Date        *time.Time
	Amount      *decimal.Decimal
	Type        *models.TransactionType
}

// ListTransactions returns the user's transactions matching the filter,
// newest first.
func (s *Service) ListTransactions(ctx context.Context, userID string, filter repository.TransactionFilter) ([]models.Transaction, error) {
	return s.repo.ListTransactions(ctx, userID, filter)
}

// GetTransaction returns a single transaction owned by the user.
func (s *Service) GetTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	return s.repo.GetTransaction(ctx, transactionID, userID)
}

// CreateTransaction records a transaction against one of the user's
// accounts and adjusts the account balance. A recurring transaction also
// gets a monthly recurrence rule anchored on its posting day.
func (s *Service) CreateTransaction(ctx context.Context, userID string, params TransactionParams) (*models.Transaction, error) {
	account, err := s.repo.GetAccount(ctx, params.AccountID, userID)
	if err != nil {
		return nil, err
	}

	currency := params.Currency
	if currency == "" {
		currency = account.Currency
	}

	now := time.Now().UTC()
	t := &models.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		AccountID:   account.ID,
		Label:       params.Label,
		Description: params.Description,
		Date:        params.Date,
		Amount:      params.Amount,
		Type:        params.Type,
		Currency:    currency,
		IsRecurring: params.IsRecurring,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if params.IsRecurring {
		rule := &models.RecurrenceRule{
			ID:         uuid.NewString(),
			UserID:     userID,
			Frequency:  models.RecurrenceMonthly,
			DayOfMonth: params.Date.Day(),
			StartDate:  params.Date,
			Active:     true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.CreateRecurrenceRule(ctx, rule); err != nil {
			return nil, err
		}
		t.RecurrenceRuleID = rule.ID
	}

	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}

	s.log.Infof("Transaction %s recorded for user %s: %s %s %s", t.ID, userID, t.Type, t.Amount, t.Currency)
	return t, nil
}

// UpdateTransaction applies the provided fields to a transaction. The
// repository reverses the old balance effect and applies the new one in a
// single database transaction.
func (s *Service) UpdateTransaction(ctx context.Context, userID, transactionID string, params TransactionUpdateParams) (*models.Transaction, error) {
	old, err := s.repo.GetTransaction(ctx, transactionID, userID)
	if err != nil {
		return nil, err
	}

	updated := *old
	if params.AccountID != nil {
		// The target account must also belong to the user.
		if _, err := s.repo.GetAccount(ctx, *params.AccountID, userID); err != nil {
			return nil, err
		}
		updated.AccountID = *params.AccountID
	}
	if params.Label != nil {
		updated.Label = *params.Label
	}
	if params.Description != nil {
		updated.Description = *params.Description
	}
	if params.Date != nil {
		updated.Date = *params.Date
	}
	if params.Amount != nil {
		updated.Amount = *params.Amount
	}
	if params.Type != nil {
		updated.Type = *params.Type
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateTransaction(ctx, old, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTransaction removes a transaction and reverses its balance effect.
func (s *Service) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	t, err := s.repo.GetTransaction(ctx, transactionID, userID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTransaction(ctx, t); err != nil {
		return err
	}
	s.log.Infof("Transaction %s deleted for user %s", transactionID, userID)
	return nil
}
