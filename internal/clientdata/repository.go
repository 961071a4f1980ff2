// Package clientdata provides persistent caching for remote lookup-client
// responses. Entries are msgpack blobs with expiration timestamps; stale
// entries are kept so clients can fall back to them when the owning service
// is unreachable.
package clientdata

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// AllTables lists all tables in clientdata.db for cleanup operations.
var AllTables = []string{
	"portfolio_lookup",
	"investor_lookup",
}

// validTables is a set for table name validation.
var validTables = func() map[string]bool {
	m := make(map[string]bool, len(AllTables))
	for _, t := range AllTables {
		m[t] = true
	}
	return m
}()

// Repository provides cache operations for remote lookup data.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new client data repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// validateTable ensures the table name is in our allowed list.
// This prevents SQL injection through table names.
func validateTable(table string) error {
	if !validTables[table] {
		return fmt.Errorf("invalid table name: %s", table)
	}
	return nil
}

// Store saves a value with expiration = now + ttl, replacing any prior entry.
func (r *Repository) Store(table, key string, value interface{}, ttl time.Duration) error {
	if err := validateTable(table); err != nil {
		return err
	}

	blob, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	expiresAt := time.Now().Add(ttl).Unix()

	query := fmt.Sprintf(
		"INSERT OR REPLACE INTO %s (key, data, expires_at) VALUES (?, ?, ?)",
		table,
	)
	if _, err := r.db.Exec(query, key, blob, expiresAt); err != nil {
		return fmt.Errorf("failed to store cache entry in %s: %w", table, err)
	}

	return nil
}

// GetIfFresh decodes the entry into dest only if expires_at > now.
// Returns false when the key is absent or expired.
func (r *Repository) GetIfFresh(table, key string, dest interface{}) (bool, error) {
	return r.get(table, key, dest, true)
}

// GetStale decodes the entry into dest regardless of expiration.
// Use as a fallback when the remote call fails - stale data beats no data.
func (r *Repository) GetStale(table, key string, dest interface{}) (bool, error) {
	return r.get(table, key, dest, false)
}

func (r *Repository) get(table, key string, dest interface{}, freshOnly bool) (bool, error) {
	if err := validateTable(table); err != nil {
		return false, err
	}

	query := fmt.Sprintf("SELECT data FROM %s WHERE key = ?", table)
	args := []interface{}{key}
	if freshOnly {
		query += " AND expires_at > ?"
		args = append(args, time.Now().Unix())
	}

	var blob []byte
	err := r.db.QueryRow(query, args...).Scan(&blob)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get cache entry from %s: %w", table, err)
	}

	if err := msgpack.Unmarshal(blob, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return true, nil
}

// Delete removes a specific entry.
func (r *Repository) Delete(table, key string) error {
	if err := validateTable(table); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE key = ?", table)
	if _, err := r.db.Exec(query, key); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return nil
}

// DeleteExpired removes all rows where expires_at < now.
// Returns the number of rows deleted.
func (r *Repository) DeleteExpired(table string) (int64, error) {
	if err := validateTable(table); err != nil {
		return 0, err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE expires_at < ?", table)
	result, err := r.db.Exec(query, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired from %s: %w", table, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected for %s: %w", table, err)
	}
	return deleted, nil
}

// DeleteAllExpired removes expired entries from every cache table.
func (r *Repository) DeleteAllExpired() (map[string]int64, error) {
	results := make(map[string]int64, len(AllTables))
	for _, table := range AllTables {
		deleted, err := r.DeleteExpired(table)
		if err != nil {
			return results, err
		}
		results[table] = deleted
	}
	return results, nil
}
