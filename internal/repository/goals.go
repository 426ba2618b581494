package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

const goalColumns = `id, user_id, name, target_amount, target_currency, target_date, priority, created_at, updated_at`

func scanGoal(row interface{ Scan(...any) error }, g *models.Goal) error {
	return row.Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.TargetCurrency,
		&g.TargetDate, &g.Priority, &g.CreatedAt, &g.UpdatedAt,
	)
}

// ListGoals returns the user's goals ordered by target date.
func (r *Repository) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM prognosis.goals
		WHERE user_id = $1
		ORDER BY target_date`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		if err := scanGoal(rows, &g); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// GetGoal retrieves one goal, scoped to the owning user.
func (r *Repository) GetGoal(ctx context.Context, goalID, userID string) (*models.Goal, error) {
	g := &models.Goal{}
	query := `
		SELECT ` + goalColumns + `
		FROM prognosis.goals
		WHERE id = $1 AND user_id = $2`
	err := scanGoal(r.db.QueryRowContext(ctx, query, goalID, userID), g)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("goal %s: %w", goalID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

// CreateGoal creates a new goal in the database
func (r *Repository) CreateGoal(ctx context.Context, g *models.Goal) error {
	query := `
		INSERT INTO prognosis.goals
			(id, user_id, name, target_amount, target_currency, target_date, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		g.ID, g.UserID, g.Name, g.TargetAmount, g.TargetCurrency, g.TargetDate, g.Priority).
		Scan(&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

// UpdateGoal rewrites a goal's fields.
func (r *Repository) UpdateGoal(ctx context.Context, g *models.Goal) error {
	query := `
		UPDATE prognosis.goals
		SET name = $3, target_amount = $4, target_currency = $5, target_date = $6,
			priority = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		g.ID, g.UserID, g.Name, g.TargetAmount, g.TargetCurrency, g.TargetDate, g.Priority).
		Scan(&g.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("goal %s: %w", g.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return nil
}

// DeleteGoal removes a goal.
func (r *Repository) DeleteGoal(ctx context.Context, goalID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM prognosis.goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("goal %s: %w", goalID, ErrNotFound)
	}
	return nil
}
