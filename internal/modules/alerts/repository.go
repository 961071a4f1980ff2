package alerts

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrAlertNotFound is returned by lookups that match no row
var ErrAlertNotFound = errors.New("alert not found")

// Repository handles exposure alert database operations
// Database: alerts.db (exposure_alerts table)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new alert repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "alerts").Logger(),
	}
}

const alertColumns = `alert_id, portfolio_id, investor_id, asset_type,
	exposure_value, limit_value, status, created_at`

// GetAll returns all alerts, newest first
func (r *Repository) GetAll() ([]ExposureAlert, error) {
	rows, err := r.db.Query("SELECT " + alertColumns + " FROM exposure_alerts ORDER BY alert_id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	return collectAlerts(rows)
}

// GetByInvestor returns all alerts raised against one investor's portfolios
func (r *Repository) GetByInvestor(investorID int64) ([]ExposureAlert, error) {
	rows, err := r.db.Query(
		"SELECT "+alertColumns+" FROM exposure_alerts WHERE investor_id = ? ORDER BY alert_id DESC",
		investorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts for investor %d: %w", investorID, err)
	}
	defer rows.Close()

	return collectAlerts(rows)
}

// Create inserts a new alert and returns it with its assigned id
func (r *Repository) Create(a ExposureAlert) (*ExposureAlert, error) {
	result, err := r.db.Exec(`
		INSERT INTO exposure_alerts (
			portfolio_id, investor_id, asset_type, exposure_value, limit_value, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.PortfolioID, a.InvestorID, a.AssetType, a.ExposureValue, a.LimitValue, a.Status, a.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get alert id: %w", err)
	}
	a.AlertID = id

	return &a, nil
}

// Delete removes an alert
func (r *Repository) Delete(alertID int64) error {
	result, err := r.db.Exec("DELETE FROM exposure_alerts WHERE alert_id = ?", alertID)
	if err != nil {
		return fmt.Errorf("failed to delete alert %d: %w", alertID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for alert %d: %w", alertID, err)
	}
	if affected == 0 {
		return ErrAlertNotFound
	}
	return nil
}

func collectAlerts(rows *sql.Rows) ([]ExposureAlert, error) {
	var alerts []ExposureAlert
	for rows.Next() {
		var a ExposureAlert
		var assetType, status sql.NullString

		if err := rows.Scan(
			&a.AlertID, &a.PortfolioID, &a.InvestorID, &assetType,
			&a.ExposureValue, &a.LimitValue, &status, &a.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}

		a.AssetType = assetType.String
		a.Status = status.String
		alerts = append(alerts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alerts: %w", err)
	}
	return alerts, nil
}
