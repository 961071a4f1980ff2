package adminusers

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrAdminNotFound is returned by lookups that match no row
var ErrAdminNotFound = errors.New("admin user not found")

// Repository handles admin user database operations
// Database: investors.db (admin_users table)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new admin user repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "adminusers").Logger(),
	}
}

const adminColumns = `staff_id, email, password, full_name, role`

// GetByID returns one staff account
func (r *Repository) GetByID(staffID int64) (*AdminUser, error) {
	row := r.db.QueryRow("SELECT "+adminColumns+" FROM admin_users WHERE staff_id = ?", staffID)
	return oneAdmin(row)
}

// FindByEmail returns the staff account registered under email
func (r *Repository) FindByEmail(email string) (*AdminUser, error) {
	row := r.db.QueryRow("SELECT "+adminColumns+" FROM admin_users WHERE email = ?", email)
	return oneAdmin(row)
}

// Create inserts a new staff account and returns it with its assigned id
func (r *Repository) Create(u AdminUser) (*AdminUser, error) {
	result, err := r.db.Exec(
		"INSERT INTO admin_users (email, password, full_name, role) VALUES (?, ?, ?, ?)",
		u.Email, u.Password, u.FullName, u.Role,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get staff id: %w", err)
	}
	u.StaffID = id

	return &u, nil
}

func oneAdmin(row *sql.Row) (*AdminUser, error) {
	var u AdminUser
	err := row.Scan(&u.StaffID, &u.Email, &u.Password, &u.FullName, &u.Role)
	if err == sql.ErrNoRows {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan admin user: %w", err)
	}
	return &u, nil
}
