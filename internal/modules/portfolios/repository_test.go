package portfolios

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
		CREATE TABLE portfolios (
			portfolio_id          INTEGER PRIMARY KEY AUTOINCREMENT,
			portfolio_name        TEXT,
			invested_amount       REAL,
			request_date          TEXT,
			equity_percentage     REAL,
			bond_percentage       REAL,
			derivative_percentage REAL,
			regulation_type       TEXT,
			quantity              INTEGER,
			status                TEXT NOT NULL DEFAULT 'Pending',
			investor_id           INTEGER NOT NULL
		);
	`)
	require.NoError(t, err)

	return db
}

func newTestRepo(t *testing.T) *Repository {
	return NewRepository(setupTestDB(t), zerolog.Nop())
}

func ptr[T any](v T) *T { return &v }

func samplePortfolio(investorID int64) Portfolio {
	return Portfolio{
		PortfolioName:        "Growth Fund",
		InvestedAmount:       ptr(250000.0),
		RequestDate:          "2026-08-01",
		EquityPercentage:     ptr(60.0),
		BondPercentage:       ptr(25.0),
		DerivativePercentage: ptr(15.0),
		RegulationType:       ptr("SEBI"),
		Quantity:             ptr(int64(100)),
		Status:               StatusPending,
		InvestorID:           investorID,
	}
}

func TestCreateAndGetByID(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Create(samplePortfolio(7))
	require.NoError(t, err)
	assert.NotZero(t, created.PortfolioID)

	got, err := repo.GetByID(created.PortfolioID)
	require.NoError(t, err)
	assert.Equal(t, "Growth Fund", got.PortfolioName)
	assert.Equal(t, int64(7), got.InvestorID)
	require.NotNil(t, got.EquityPercentage)
	assert.Equal(t, 60.0, *got.EquityPercentage)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(999)
	assert.ErrorIs(t, err, ErrPortfolioNotFound)
}

func TestNullableFieldsSurviveRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	p := samplePortfolio(1)
	p.BondPercentage = nil
	p.RegulationType = nil
	p.Quantity = nil

	created, err := repo.Create(p)
	require.NoError(t, err)

	got, err := repo.GetByID(created.PortfolioID)
	require.NoError(t, err)
	assert.Nil(t, got.BondPercentage, "absent percentage must stay absent, not become zero")
	assert.Nil(t, got.RegulationType)
	assert.Nil(t, got.Quantity)
	require.NotNil(t, got.EquityPercentage)
	assert.Equal(t, 60.0, *got.EquityPercentage)
}

func TestGetByInvestor(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Create(samplePortfolio(1))
	require.NoError(t, err)
	_, err = repo.Create(samplePortfolio(1))
	require.NoError(t, err)
	_, err = repo.Create(samplePortfolio(2))
	require.NoError(t, err)

	mine, err := repo.GetByInvestor(1)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := repo.GetByInvestor(42)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdate(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Create(samplePortfolio(1))
	require.NoError(t, err)

	created.PortfolioName = "Rebalanced Fund"
	created.Status = StatusApproved
	created.EquityPercentage = ptr(40.0)
	require.NoError(t, repo.Update(*created))

	got, err := repo.GetByID(created.PortfolioID)
	require.NoError(t, err)
	assert.Equal(t, "Rebalanced Fund", got.PortfolioName)
	assert.Equal(t, StatusApproved, got.Status)
	assert.Equal(t, 40.0, *got.EquityPercentage)
}

func TestUpdateMissingRow(t *testing.T) {
	repo := newTestRepo(t)

	p := samplePortfolio(1)
	p.PortfolioID = 404
	assert.ErrorIs(t, repo.Update(p), ErrPortfolioNotFound)
}

func TestUpdateStatus(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Create(samplePortfolio(1))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(created.PortfolioID, StatusRejected))

	got, err := repo.GetByID(created.PortfolioID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got.Status)

	assert.ErrorIs(t, repo.UpdateStatus(999, StatusApproved), ErrPortfolioNotFound)
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Create(samplePortfolio(1))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(created.PortfolioID))

	_, err = repo.GetByID(created.PortfolioID)
	assert.ErrorIs(t, err, ErrPortfolioNotFound)

	assert.ErrorIs(t, repo.Delete(created.PortfolioID), ErrPortfolioNotFound)
}
