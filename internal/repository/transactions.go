package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

// TransactionFilter narrows ListTransactions. Zero values mean "no filter";
// Limit defaults to 100.
type TransactionFilter struct {
	AccountID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

const transactionColumns = `id, user_id, account_id, label, description, date, amount, type,
		currency, is_recurring, recurrence_rule_id, created_at, updated_at`

func scanTransaction(row interface{ Scan(...any) error }, t *models.Transaction) error {
	var ruleID sql.NullString
	err := row.Scan(
		&t.ID, &t.UserID, &t.AccountID, &t.Label, &t.Description, &t.Date,
		&t.Amount, &t.Type, &t.Currency, &t.IsRecurring, &ruleID,
		&t.CreatedAt, &t.UpdatedAt,
	)
	t.RecurrenceRuleID = ruleID.String
	return err
}

// ListTransactions returns the user's transactions, newest first.
func (r *Repository) ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM prognosis.transactions
		WHERE user_id = $1`
	args := []any{userID}

	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		query += ` AND account_id = $` + strconv.Itoa(len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += ` AND date >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += ` AND date <= $` + strconv.Itoa(len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` ORDER BY date DESC LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// GetTransaction retrieves one transaction, scoped to the owning user.
func (r *Repository) GetTransaction(ctx context.Context, transactionID, userID string) (*models.Transaction, error) {
	t := &models.Transaction{}
	query := `
		SELECT ` + transactionColumns + `
		FROM prognosis.transactions
		WHERE id = $1 AND user_id = $2`
	err := scanTransaction(r.db.QueryRowContext(ctx, query, transactionID, userID), t)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// CreateTransaction inserts the transaction and applies its effect to the
// account balance in a single database transaction.
func (r *Repository) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var ruleID any
	if t.RecurrenceRuleID != "" {
		ruleID = t.RecurrenceRuleID
	}
	query := `
		INSERT INTO prognosis.transactions
			(id, user_id, account_id, label, description, date, amount, type, currency,
			 is_recurring, recurrence_rule_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err = tx.QueryRowContext(ctx, query,
		t.ID, t.UserID, t.AccountID, t.Label, t.Description, t.Date, t.Amount,
		t.Type, t.Currency, t.IsRecurring, ruleID).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := applyBalance(ctx, tx, t.AccountID, t.UserID, balanceDelta(t.Amount, t.Type, false)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// UpdateTransaction rewrites the row and rebalances the affected accounts:
// the old effect is reversed on the old account and the new effect applied
// to the (possibly different) new account, atomically.
func (r *Repository) UpdateTransaction(ctx context.Context, old, updated *models.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE prognosis.transactions
		SET account_id = $3, label = $4, description = $5, date = $6, amount = $7,
			type = $8, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`
	err = tx.QueryRowContext(ctx, query,
		updated.ID, updated.UserID, updated.AccountID, updated.Label,
		updated.Description, updated.Date, updated.Amount, updated.Type).
		Scan(&updated.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("transaction %s: %w", updated.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	if err := applyBalance(ctx, tx, old.AccountID, old.UserID, balanceDelta(old.Amount, old.Type, true)); err != nil {
		return err
	}
	if err := applyBalance(ctx, tx, updated.AccountID, updated.UserID, balanceDelta(updated.Amount, updated.Type, false)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// DeleteTransaction removes the row and reverts its balance effect.
func (r *Repository) DeleteTransaction(ctx context.Context, t *models.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM prognosis.transactions WHERE id = $1 AND user_id = $2`, t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", t.ID, ErrNotFound)
	}

	if err := applyBalance(ctx, tx, t.AccountID, t.UserID, balanceDelta(t.Amount, t.Type, true)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// HasTransactionForRuleInMonth reports whether a recurring rule already
// produced a transaction in the month containing day.
func (r *Repository) HasTransactionForRuleInMonth(ctx context.Context, ruleID string, day time.Time) (bool, error) {
	monthStart := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM prognosis.transactions
			WHERE recurrence_rule_id = $1 AND date >= $2 AND date < $3
		)`
	if err := r.db.QueryRowContext(ctx, query, ruleID, monthStart, monthEnd).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check rule posting: %w", err)
	}
	return exists, nil
}

// LatestTransactionForRule returns the most recent transaction created from
// a recurrence rule; it serves as the template for the next posting.
func (r *Repository) LatestTransactionForRule(ctx context.Context, ruleID string) (*models.Transaction, error) {
	t := &models.Transaction{}
	query := `
		SELECT ` + transactionColumns + `
		FROM prognosis.transactions
		WHERE recurrence_rule_id = $1
		ORDER BY date DESC
		LIMIT 1`
	err := scanTransaction(r.db.QueryRowContext(ctx, query, ruleID), t)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("rule %s template: %w", ruleID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule template: %w", err)
	}
	return t, nil
}

func balanceDelta(amount decimal.Decimal, txType models.TransactionType, reverse bool) decimal.Decimal {
	if (txType == models.TransactionCredit) != reverse {
		return amount
	}
	return amount.Neg()
}

func applyBalance(ctx context.Context, tx *sql.Tx, accountID, userID string, delta decimal.Decimal) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE prognosis.accounts
		SET balance = balance + $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2`, accountID, userID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("account %s: %w", accountID, ErrNotFound)
	}
	return nil
}
