package portfolioapi

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/portsure/platform/internal/clientdata"
)

func newTestCacheRepo(t *testing.T) *clientdata.Repository {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE portfolio_lookup (
			key        TEXT PRIMARY KEY,
			data       BLOB NOT NULL,
			expires_at INTEGER NOT NULL
		);
		CREATE TABLE investor_lookup (
			key        TEXT PRIMARY KEY,
			data       BLOB NOT NULL,
			expires_at INTEGER NOT NULL
		);
	`)
	require.NoError(t, err)

	return clientdata.NewRepository(db)
}
