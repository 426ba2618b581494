package models

import "time"

// ReportContent is the narrative body of a prognosis report, either produced
// by the narrator or assembled from the templated fallback.
type ReportContent struct {
	SummaryBullets    []string `json:"summary_bullets"`
	CashflowSection   string   `json:"cashflow_section"`
	GoalsSection      string   `json:"goals_section"`
	AllocationSection string   `json:"allocation_section"`
	ChangesSinceLast  string   `json:"changes_since_last"`
	Disclaimer        string   `json:"disclaimer"`
	MarkdownBody      string   `json:"markdown_body,omitempty"`
	ModelVersion      string   `json:"model_version"`
}

// InputsSnapshot records the shape of the data a report was generated from.
type InputsSnapshot struct {
	AccountsCount     int       `json:"accounts_count"`
	TransactionsCount int       `json:"transactions_count"`
	GoalsCount        int       `json:"goals_count"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// PrognosisReport is the single cached report per user, overwritten on each
// successful generation.
type PrognosisReport struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	Report         ReportContent  `json:"report_json"`
	InputsSnapshot InputsSnapshot `json:"inputs_snapshot"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// PrognosisUsage counts successful generations per user per calendar day.
// A new row starts each day; rows are never reset in place.
type PrognosisUsage struct {
	ID     string    `json:"id"`
	UserID string    `json:"user_id"`
	Date   time.Time `json:"date"`
	Count  int       `json:"count"`
}
