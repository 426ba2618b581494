package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

// AccountParams carries the caller-supplied fields for creating an account.
type AccountParams struct {
	Name           string
	Type           models.AccountType
	Currency       string
	InitialBalance decimal.Decimal
}

// AccountUpdateParams carries the optional fields of an account update.
// Balance is intentionally absent; balances only move through transactions.
type AccountUpdateParams struct {
	Name     *string
	Type     *models.AccountType
	Currency *string
}

// ListAccounts returns all accounts owned by the user.
func (s *Service) ListAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	return s.repo.ListAccounts(ctx, userID)
}

// GetAccount returns a single account owned by the user.
func (s *Service) GetAccount(ctx context.Context, userID, accountID string) (*models.Account, error) {
	return s.repo.GetAccount(ctx, accountID, userID)
}

// CreateAccount creates a new account for the authenticated user. The
// initial balance is stored as-is; later balance changes happen only via
// transactions.
func (s *Service) CreateAccount(ctx context.Context, userID string, params AccountParams) (*models.Account, error) {
	if err := s.repo.UpsertUser(ctx, userID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &models.Account{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      params.Name,
		Type:      params.Type,
		Currency:  params.Currency,
		Balance:   params.InitialBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	s.log.Infof("Account %s created for user %s (%s)", account.ID, userID, account.Type)
	return account, nil
}

// UpdateAccount applies the provided fields to an existing account.
func (s *Service) UpdateAccount(ctx context.Context, userID, accountID string, params AccountUpdateParams) (*models.Account, error) {
	account, err := s.repo.GetAccount(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		account.Name = *params.Name
	}
	if params.Type != nil {
		account.Type = *params.Type
	}
	if params.Currency != nil {
		account.Currency = *params.Currency
	}
	account.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes an account and, via the schema's cascade, its
// transactions.
func (s *Service) DeleteAccount(ctx context.Context, userID, accountID string) error {
	if err := s.repo.DeleteAccount(ctx, accountID, userID); err != nil {
		return err
	}
	s.log.Infof("Account %s deleted for user %s", accountID, userID)
	return nil
}
