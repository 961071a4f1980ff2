package investors

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrInvestorNotFound is returned by lookups that match no row
var ErrInvestorNotFound = errors.New("investor not found")

// Repository handles investor database operations
// Database: investors.db (investors table)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new investor repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "investors").Logger(),
	}
}

const investorColumns = `investor_id, full_name, email, password, phone_number`

// GetAll returns all investors, password hashes included. Callers serialize
// through Sanitized.
func (r *Repository) GetAll() ([]Investor, error) {
	rows, err := r.db.Query("SELECT " + investorColumns + " FROM investors ORDER BY investor_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query investors: %w", err)
	}
	defer rows.Close()

	var investors []Investor
	for rows.Next() {
		inv, err := scanInvestor(rows)
		if err != nil {
			return nil, err
		}
		investors = append(investors, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investors: %w", err)
	}
	return investors, nil
}

// GetByID returns one investor
func (r *Repository) GetByID(id int64) (*Investor, error) {
	row := r.db.QueryRow("SELECT "+investorColumns+" FROM investors WHERE investor_id = ?", id)
	return oneInvestor(row)
}

// FindByEmail returns the investor registered under email
func (r *Repository) FindByEmail(email string) (*Investor, error) {
	row := r.db.QueryRow("SELECT "+investorColumns+" FROM investors WHERE email = ?", email)
	return oneInvestor(row)
}

// Create inserts a new investor and returns it with its assigned id
func (r *Repository) Create(inv Investor) (*Investor, error) {
	result, err := r.db.Exec(
		"INSERT INTO investors (full_name, email, password, phone_number) VALUES (?, ?, ?, ?)",
		inv.FullName, inv.Email, inv.Password, inv.PhoneNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create investor: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get investor id: %w", err)
	}
	inv.InvestorID = id

	return &inv, nil
}

// UpdateProfile overwrites name, email and phone for an investor
func (r *Repository) UpdateProfile(inv Investor) error {
	result, err := r.db.Exec(
		"UPDATE investors SET full_name = ?, email = ?, phone_number = ? WHERE investor_id = ?",
		inv.FullName, inv.Email, inv.PhoneNumber, inv.InvestorID,
	)
	if err != nil {
		return fmt.Errorf("failed to update investor %d: %w", inv.InvestorID, err)
	}
	return checkAffected(result, inv.InvestorID)
}

// UpdatePassword stores a new password hash for an investor
func (r *Repository) UpdatePassword(id int64, hash string) error {
	result, err := r.db.Exec("UPDATE investors SET password = ? WHERE investor_id = ?", hash, id)
	if err != nil {
		return fmt.Errorf("failed to update password for investor %d: %w", id, err)
	}
	return checkAffected(result, id)
}

func checkAffected(result sql.Result, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for investor %d: %w", id, err)
	}
	if affected == 0 {
		return ErrInvestorNotFound
	}
	return nil
}

func oneInvestor(row *sql.Row) (*Investor, error) {
	inv, err := scanInvestor(row)
	if err == sql.ErrNoRows {
		return nil, ErrInvestorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanInvestor(s scanner) (Investor, error) {
	var inv Investor
	var phone sql.NullString

	if err := s.Scan(&inv.InvestorID, &inv.FullName, &inv.Email, &inv.Password, &phone); err != nil {
		if err == sql.ErrNoRows {
			return inv, err
		}
		return inv, fmt.Errorf("failed to scan investor: %w", err)
	}

	inv.PhoneNumber = phone.String
	return inv, nil
}
