package riskscores

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrScoreNotFound is returned by lookups that match no row
var ErrScoreNotFound = errors.New("risk score not found")

// Repository handles risk score database operations
// Database: risk.db (risk_scores table)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new risk score repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "riskscores").Logger(),
	}
}

const scoreColumns = `risk_id, portfolio_id, equity_percentage, bond_percentage,
	derivative_percentage, calculated_score, risk_level, calculation_date`

// FindByPortfolioID returns the current score row for a portfolio
func (r *Repository) FindByPortfolioID(portfolioID int64) (*RiskScore, error) {
	row := r.db.QueryRow(
		"SELECT "+scoreColumns+" FROM risk_scores WHERE portfolio_id = ?",
		portfolioID,
	)

	var s RiskScore
	err := row.Scan(
		&s.RiskID, &s.PortfolioID,
		&s.EquityPercentage, &s.BondPercentage, &s.DerivativePercentage,
		&s.CalculatedScore, &s.RiskLevel, &s.CalculationDate,
	)
	if err == sql.ErrNoRows {
		return nil, ErrScoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan risk score: %w", err)
	}
	return &s, nil
}

// Upsert writes the score for a portfolio, overwriting any previous row.
// The portfolio_id UNIQUE constraint keeps one current grade per portfolio.
func (r *Repository) Upsert(s RiskScore) (*RiskScore, error) {
	if s.CalculationDate == "" {
		s.CalculationDate = time.Now().Format(DateLayout)
	}

	_, err := r.db.Exec(`
		INSERT INTO risk_scores (
			portfolio_id, equity_percentage, bond_percentage, derivative_percentage,
			calculated_score, risk_level, calculation_date
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(portfolio_id) DO UPDATE SET
			equity_percentage     = excluded.equity_percentage,
			bond_percentage       = excluded.bond_percentage,
			derivative_percentage = excluded.derivative_percentage,
			calculated_score      = excluded.calculated_score,
			risk_level            = excluded.risk_level,
			calculation_date      = excluded.calculation_date`,
		s.PortfolioID, s.EquityPercentage, s.BondPercentage, s.DerivativePercentage,
		s.CalculatedScore, s.RiskLevel, s.CalculationDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert risk score for portfolio %d: %w", s.PortfolioID, err)
	}

	// LastInsertId is unreliable on the update path; re-read for the risk id
	return r.FindByPortfolioID(s.PortfolioID)
}
