package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

// ErrNotFound is returned when a row does not exist or is not owned by the
// requesting user.
var ErrNotFound = errors.New("not found")

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// UpsertUser ensures a shadow users row exists for the given JWT subject.
func (r *Repository) UpsertUser(ctx context.Context, userID string) error {
	query := `
		INSERT INTO prognosis.users (id, created_at, updated_at)
		VALUES ($1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// WithUserLock runs fn inside a transaction holding a per-user advisory
// lock, serializing concurrent report generations for the same user so the
// usage counter check-and-increment and the report upsert cannot race.
func (r *Repository) WithUserLock(ctx context.Context, userID string, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to take user lock: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func scanAccount(row interface{ Scan(...any) error }, account *models.Account) error {
	return row.Scan(
		&account.ID, &account.UserID, &account.Name, &account.Type,
		&account.Currency, &account.Balance, &account.CreatedAt, &account.UpdatedAt,
	)
}
