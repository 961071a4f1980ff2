package compliance

import (
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE compliance_logs (
			log_id            INTEGER PRIMARY KEY AUTOINCREMENT,
			portfolio_id      INTEGER NOT NULL,
			regulation_type   TEXT,
			findings          TEXT,
			compliance_status TEXT,
			log_date          TEXT
		);
		CREATE UNIQUE INDEX idx_compliance_logs_portfolio ON compliance_logs(portfolio_id);
	`)
	require.NoError(t, err)

	return db
}

func newTestRepo(t *testing.T) *Repository {
	return NewRepository(setupTestDB(t), zerolog.Nop())
}

func TestCreateAndGetAll(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Create(Report{
		PortfolioID:      5,
		RegulationType:   "SEBI",
		Findings:         "no violations detected",
		ComplianceStatus: StatusCompliant,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.LogID)
	assert.NotEmpty(t, created.Date, "date defaults to today")

	reports, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, int64(5), reports[0].PortfolioID)
}

func TestUpsertCreatesThenOverwrites(t *testing.T) {
	repo := newTestRepo(t)

	first, err := repo.Upsert(Report{
		PortfolioID:      5,
		RegulationType:   "SEBI",
		Findings:         "no violations detected",
		ComplianceStatus: StatusCompliant,
	})
	require.NoError(t, err)

	second, err := repo.Upsert(Report{
		PortfolioID:      5,
		RegulationType:   "SEBI",
		Findings:         "derivative risk exceeds bond coverage",
		ComplianceStatus: StatusNonCompliant,
	})
	require.NoError(t, err)

	// Same row overwritten in place, never a second row
	assert.Equal(t, first.LogID, second.LogID)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	current, err := repo.FindByPortfolioID(5)
	require.NoError(t, err)
	assert.Equal(t, StatusNonCompliant, current.ComplianceStatus)
}

func TestFindByPortfolioIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByPortfolioID(404)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestGetByID(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Create(Report{PortfolioID: 9, ComplianceStatus: StatusCompliant})
	require.NoError(t, err)

	found, err := repo.GetByID(created.LogID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), found.PortfolioID)

	_, err = repo.GetByID(created.LogID + 100)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestDeleteByID(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Create(Report{PortfolioID: 3, ComplianceStatus: StatusCompliant})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByID(created.LogID))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDeleteByIDMissingLeavesTableUnchanged(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Create(Report{PortfolioID: 3, ComplianceStatus: StatusCompliant})
	require.NoError(t, err)

	err = repo.DeleteByID(999)
	assert.ErrorIs(t, err, ErrReportNotFound)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeleteByPortfolioID(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Upsert(Report{PortfolioID: 7, ComplianceStatus: StatusCompliant})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByPortfolioID(7))
	assert.ErrorIs(t, repo.DeleteByPortfolioID(7), ErrReportNotFound)
}
