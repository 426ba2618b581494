package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

// GetReport returns the user's cached prognosis report, or ErrNotFound when
// none has ever been generated.
func (r *Repository) GetReport(ctx context.Context, userID string) (*models.PrognosisReport, error) {
	report := &models.PrognosisReport{}
	var reportJSON, snapshotJSON []byte
	query := `
		SELECT id, user_id, report_json, inputs_snapshot, generated_at
		FROM prognosis.prognosis_reports
		WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&report.ID, &report.UserID, &reportJSON, &snapshotJSON, &report.GeneratedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report for user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if err := json.Unmarshal(reportJSON, &report.Report); err != nil {
		return nil, fmt.Errorf("failed to decode report body: %w", err)
	}
	if err := json.Unmarshal(snapshotJSON, &report.InputsSnapshot); err != nil {
		return nil, fmt.Errorf("failed to decode inputs snapshot: %w", err)
	}
	return report, nil
}

// UpsertReportTx writes the single report row for the user, overwriting any
// previous one. Runs inside the caller's advisory-locked transaction.
func (r *Repository) UpsertReportTx(ctx context.Context, tx *sql.Tx, report *models.PrognosisReport) error {
	reportJSON, err := json.Marshal(report.Report)
	if err != nil {
		return fmt.Errorf("failed to encode report body: %w", err)
	}
	snapshotJSON, err := json.Marshal(report.InputsSnapshot)
	if err != nil {
		return fmt.Errorf("failed to encode inputs snapshot: %w", err)
	}

	query := `
		INSERT INTO prognosis.prognosis_reports (id, user_id, report_json, inputs_snapshot, generated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET report_json = EXCLUDED.report_json,
			inputs_snapshot = EXCLUDED.inputs_snapshot,
			generated_at = EXCLUDED.generated_at
		RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		report.ID, report.UserID, reportJSON, snapshotJSON, report.GeneratedAt).
		Scan(&report.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert report: %w", err)
	}
	return nil
}

// UsageCountTx returns today's generation count for the user, zero when no
// row exists yet for the day.
func (r *Repository) UsageCountTx(ctx context.Context, tx *sql.Tx, userID string, day time.Time) (int, error) {
	var count int
	query := `
		SELECT count FROM prognosis.prognosis_usage
		WHERE user_id = $1 AND date = $2`
	err := tx.QueryRowContext(ctx, query, userID, day).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read usage: %w", err)
	}
	return count, nil
}

// IncrementUsageTx bumps the per-day counter, creating the day's row on
// first use. Date change naturally starts a fresh row.
func (r *Repository) IncrementUsageTx(ctx context.Context, tx *sql.Tx, id, userID string, day time.Time) (int, error) {
	var count int
	query := `
		INSERT INTO prognosis.prognosis_usage (id, user_id, date, count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (user_id, date) DO UPDATE
		SET count = prognosis_usage.count + 1
		RETURNING count`
	if err := tx.QueryRowContext(ctx, query, id, userID, day).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to increment usage: %w", err)
	}
	return count, nil
}
