package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

// CreateRecurrenceRule stores a new recurrence rule.
func (r *Repository) CreateRecurrenceRule(ctx context.Context, rule *models.RecurrenceRule) error {
	query := `
		INSERT INTO prognosis.recurrence_rules
			(id, user_id, frequency, day_of_month, start_date, end_date, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		rule.ID, rule.UserID, rule.Frequency, rule.DayOfMonth,
		rule.StartDate, rule.EndDate, rule.Active).
		Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create recurrence rule: %w", err)
	}
	return nil
}

// DueRecurrenceRules returns active monthly rules whose posting day matches
// day and whose active window contains it. Months shorter than the rule's
// day of month post on the last day instead.
func (r *Repository) DueRecurrenceRules(ctx context.Context, day time.Time) ([]models.RecurrenceRule, error) {
	lastOfMonth := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, -1).Day()
	wantDay := day.Day()

	query := `
		SELECT id, user_id, frequency, day_of_month, start_date, end_date, active, created_at, updated_at
		FROM prognosis.recurrence_rules
		WHERE active
			AND frequency = $1
			AND start_date <= $2
			AND (end_date IS NULL OR end_date >= $2)
			AND (day_of_month = $3 OR ($3 = $4 AND day_of_month > $4))`
	rows, err := r.db.QueryContext(ctx, query, models.RecurrenceMonthly, day, wantDay, lastOfMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to list due rules: %w", err)
	}
	defer rows.Close()

	var rules []models.RecurrenceRule
	for rows.Next() {
		var rule models.RecurrenceRule
		var endDate sql.NullTime
		err := rows.Scan(
			&rule.ID, &rule.UserID, &rule.Frequency, &rule.DayOfMonth,
			&rule.StartDate, &endDate, &rule.Active, &rule.CreatedAt, &rule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurrence rule: %w", err)
		}
		if endDate.Valid {
			rule.EndDate = &endDate.Time
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}
