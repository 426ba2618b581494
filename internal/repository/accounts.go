package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

const accountColumns = `id, user_id, name, type, currency, balance, created_at, updated_at`

// ListAccounts returns all accounts owned by the user, oldest first.
func (r *Repository) ListAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM prognosis.accounts
		WHERE user_id = $1
		ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		if err := scanAccount(rows, &account); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// GetAccount retrieves one account, scoped to the owning user.
func (r *Repository) GetAccount(ctx context.Context, accountID, userID string) (*models.Account, error) {
	account := &models.Account{}
	query := `
		SELECT ` + accountColumns + `
		FROM prognosis.accounts
		WHERE id = $1 AND user_id = $2`
	err := scanAccount(r.db.QueryRowContext(ctx, query, accountID, userID), account)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %s: %w", accountID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// CreateAccount creates a new account in the database
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO prognosis.accounts (id, user_id, name, type, currency, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.UserID, account.Name, account.Type, account.Currency, account.Balance).
		Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// UpdateAccount updates account metadata. Balance is never written here; it
// only moves through transactions.
func (r *Repository) UpdateAccount(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE prognosis.accounts
		SET name = $3, type = $4, currency = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2
		RETURNING balance, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.UserID, account.Name, account.Type, account.Currency).
		Scan(&account.Balance, &account.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("account %s: %w", account.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// DeleteAccount removes an account and, via cascade, its transactions.
func (r *Repository) DeleteAccount(ctx context.Context, accountID, userID string) error {
	query := `DELETE FROM prognosis.accounts WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, accountID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("account %s: %w", accountID, ErrNotFound)
	}
	return nil
}
