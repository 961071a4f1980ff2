package portfolios

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrPortfolioNotFound is returned by lookups that match no row
var ErrPortfolioNotFound = errors.New("portfolio not found")

// Repository handles portfolio database operations
// Database: portfolios.db (portfolios table)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new portfolio repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "portfolios").Logger(),
	}
}

const portfolioColumns = `portfolio_id, portfolio_name, invested_amount, request_date,
	equity_percentage, bond_percentage, derivative_percentage, regulation_type,
	quantity, status, investor_id`

// GetAll returns all portfolios
func (r *Repository) GetAll() ([]Portfolio, error) {
	rows, err := r.db.Query("SELECT " + portfolioColumns + " FROM portfolios ORDER BY portfolio_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios: %w", err)
	}
	defer rows.Close()

	return collectPortfolios(rows)
}

// GetByID returns one portfolio
func (r *Repository) GetByID(id int64) (*Portfolio, error) {
	row := r.db.QueryRow("SELECT "+portfolioColumns+" FROM portfolios WHERE portfolio_id = ?", id)

	portfolio, err := scanPortfolio(row)
	if err == sql.ErrNoRows {
		return nil, ErrPortfolioNotFound
	}
	if err != nil {
		return nil, err
	}
	return &portfolio, nil
}

// GetByInvestor returns all portfolios owned by one investor
func (r *Repository) GetByInvestor(investorID int64) ([]Portfolio, error) {
	rows, err := r.db.Query(
		"SELECT "+portfolioColumns+" FROM portfolios WHERE investor_id = ? ORDER BY portfolio_id",
		investorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios for investor %d: %w", investorID, err)
	}
	defer rows.Close()

	return collectPortfolios(rows)
}

// Create inserts a new portfolio row and returns it with its assigned id
func (r *Repository) Create(p Portfolio) (*Portfolio, error) {
	result, err := r.db.Exec(`
		INSERT INTO portfolios (
			portfolio_name, invested_amount, request_date,
			equity_percentage, bond_percentage, derivative_percentage,
			regulation_type, quantity, status, investor_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PortfolioName, p.InvestedAmount, p.RequestDate,
		p.EquityPercentage, p.BondPercentage, p.DerivativePercentage,
		p.RegulationType, p.Quantity, p.Status, p.InvestorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio id: %w", err)
	}
	p.PortfolioID = id

	return &p, nil
}

// Update overwrites all mutable fields of an existing portfolio
func (r *Repository) Update(p Portfolio) error {
	result, err := r.db.Exec(`
		UPDATE portfolios SET
			portfolio_name = ?, invested_amount = ?, request_date = ?,
			equity_percentage = ?, bond_percentage = ?, derivative_percentage = ?,
			regulation_type = ?, quantity = ?, status = ?
		WHERE portfolio_id = ?`,
		p.PortfolioName, p.InvestedAmount, p.RequestDate,
		p.EquityPercentage, p.BondPercentage, p.DerivativePercentage,
		p.RegulationType, p.Quantity, p.Status, p.PortfolioID,
	)
	if err != nil {
		return fmt.Errorf("failed to update portfolio %d: %w", p.PortfolioID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for portfolio %d: %w", p.PortfolioID, err)
	}
	if affected == 0 {
		return ErrPortfolioNotFound
	}
	return nil
}

// UpdateStatus changes only the lifecycle status of a portfolio
func (r *Repository) UpdateStatus(id int64, status Status) error {
	result, err := r.db.Exec("UPDATE portfolios SET status = ? WHERE portfolio_id = ?", status, id)
	if err != nil {
		return fmt.Errorf("failed to update status for portfolio %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for portfolio %d: %w", id, err)
	}
	if affected == 0 {
		return ErrPortfolioNotFound
	}
	return nil
}

// Delete removes a portfolio. Compliance reports are owned by a separate
// store and are deliberately not cascaded.
func (r *Repository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM portfolios WHERE portfolio_id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for portfolio %d: %w", id, err)
	}
	if affected == 0 {
		return ErrPortfolioNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPortfolio(s scanner) (Portfolio, error) {
	var p Portfolio
	var name, requestDate, status sql.NullString

	if err := s.Scan(
		&p.PortfolioID,
		&name,
		&p.InvestedAmount,
		&requestDate,
		&p.EquityPercentage,
		&p.BondPercentage,
		&p.DerivativePercentage,
		&p.RegulationType,
		&p.Quantity,
		&status,
		&p.InvestorID,
	); err != nil {
		if err == sql.ErrNoRows {
			return p, err
		}
		return p, fmt.Errorf("failed to scan portfolio: %w", err)
	}

	p.PortfolioName = name.String
	p.RequestDate = requestDate.String
	p.Status = Status(status.String)

	return p, nil
}

func collectPortfolios(rows *sql.Rows) ([]Portfolio, error) {
	var portfolios []Portfolio
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios: %w", err)
	}
	return portfolios, nil
}
