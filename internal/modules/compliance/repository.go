package compliance

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrReportNotFound is returned by lookups and deletes that match no row
var ErrReportNotFound = errors.New("compliance report not found")

// Repository handles compliance report database operations
// Database: compliance.db (compliance_logs table)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new compliance report repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "compliance").Logger(),
	}
}

const reportColumns = "log_id, portfolio_id, regulation_type, findings, compliance_status, log_date"

// GetAll returns all compliance reports ordered by portfolio id
func (r *Repository) GetAll() ([]Report, error) {
	rows, err := r.db.Query("SELECT " + reportColumns + " FROM compliance_logs ORDER BY portfolio_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query compliance reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating compliance reports: %w", err)
	}

	return reports, nil
}

// GetByID returns one report by its log id
func (r *Repository) GetByID(logID int64) (*Report, error) {
	row := r.db.QueryRow("SELECT "+reportColumns+" FROM compliance_logs WHERE log_id = ?", logID)

	report, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// FindByPortfolioID returns the current report for a portfolio, or
// ErrReportNotFound when the portfolio has never been audited.
func (r *Repository) FindByPortfolioID(portfolioID int64) (*Report, error) {
	row := r.db.QueryRow("SELECT "+reportColumns+" FROM compliance_logs WHERE portfolio_id = ?", portfolioID)

	report, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Create inserts a new report row. The date defaults to today when unset.
func (r *Repository) Create(report Report) (*Report, error) {
	if report.Date == "" {
		report.Date = time.Now().Format(DateLayout)
	}

	result, err := r.db.Exec(`
		INSERT INTO compliance_logs (portfolio_id, regulation_type, findings, compliance_status, log_date)
		VALUES (?, ?, ?, ?, ?)`,
		report.PortfolioID, report.RegulationType, report.Findings, report.ComplianceStatus, report.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create compliance report: %w", err)
	}

	logID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get compliance report id: %w", err)
	}
	report.LogID = logID

	return &report, nil
}

// Upsert writes the current report for report.PortfolioID: the existing row
// is overwritten in place when present, otherwise a new row is created. The
// unique index on portfolio_id guarantees a single current report even when
// concurrent audits race (last write wins).
func (r *Repository) Upsert(report Report) (*Report, error) {
	if report.Date == "" {
		report.Date = time.Now().Format(DateLayout)
	}

	_, err := r.db.Exec(`
		INSERT INTO compliance_logs (portfolio_id, regulation_type, findings, compliance_status, log_date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(portfolio_id) DO UPDATE SET
			regulation_type = excluded.regulation_type,
			findings = excluded.findings,
			compliance_status = excluded.compliance_status,
			log_date = excluded.log_date`,
		report.PortfolioID, report.RegulationType, report.Findings, report.ComplianceStatus, report.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert compliance report for portfolio %d: %w", report.PortfolioID, err)
	}

	// LastInsertId is unreliable on the update path; re-read for the log id
	existing, err := r.FindByPortfolioID(report.PortfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back upserted report for portfolio %d: %w", report.PortfolioID, err)
	}
	return existing, nil
}

// DeleteByID removes one report. Returns ErrReportNotFound when no row
// matched, leaving the table untouched.
func (r *Repository) DeleteByID(logID int64) error {
	result, err := r.db.Exec("DELETE FROM compliance_logs WHERE log_id = ?", logID)
	if err != nil {
		return fmt.Errorf("failed to delete compliance report %d: %w", logID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for report %d: %w", logID, err)
	}
	if affected == 0 {
		return ErrReportNotFound
	}
	return nil
}

// DeleteByPortfolioID removes the current report for a portfolio. Report
// lifecycle is independent of the portfolio's own: deleting a portfolio does
// not cascade here, only this explicit call does.
func (r *Repository) DeleteByPortfolioID(portfolioID int64) error {
	result, err := r.db.Exec("DELETE FROM compliance_logs WHERE portfolio_id = ?", portfolioID)
	if err != nil {
		return fmt.Errorf("failed to delete compliance report for portfolio %d: %w", portfolioID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for portfolio %d: %w", portfolioID, err)
	}
	if affected == 0 {
		return ErrReportNotFound
	}
	return nil
}

// Count returns the number of stored reports
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM compliance_logs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count compliance reports: %w", err)
	}
	return count, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(s scanner) (Report, error) {
	var report Report
	var regulationType, findings, status, date sql.NullString

	if err := s.Scan(
		&report.LogID,
		&report.PortfolioID,
		&regulationType,
		&findings,
		&status,
		&date,
	); err != nil {
		if err == sql.ErrNoRows {
			return report, err
		}
		return report, fmt.Errorf("failed to scan compliance report: %w", err)
	}

	report.RegulationType = regulationType.String
	report.Findings = findings.String
	report.ComplianceStatus = status.String
	report.Date = date.String

	return report, nil
}
