package riskscores

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/portsure/platform/internal/clients/portfolioapi"
)

func ptr[T any](v T) *T { return &v }

type fakeLookup struct {
	portfolios map[int64]*portfolioapi.Portfolio
}

func (f *fakeLookup) GetByID(id int64) (*portfolioapi.Portfolio, error) {
	if p, ok := f.portfolios[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: portfolio service returned status 404 for id %d", portfolioapi.ErrNotFound, id)
}

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE risk_scores (
			risk_id               INTEGER PRIMARY KEY AUTOINCREMENT,
			portfolio_id          INTEGER NOT NULL UNIQUE,
			equity_percentage     REAL,
			bond_percentage       REAL,
			derivative_percentage REAL,
			calculated_score      INTEGER,
			risk_level            TEXT,
			calculation_date      TEXT
		);
	`)
	require.NoError(t, err)

	return db
}

func newTestService(t *testing.T, lookup PortfolioLookup) (*Service, *Repository) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())
	return NewService(repo, lookup, zerolog.Nop()), repo
}

func testPortfolio(id int64, equity, bond, derivative float64) *portfolioapi.Portfolio {
	return &portfolioapi.Portfolio{
		PortfolioID:          ptr(id),
		InvestorID:           ptr(int64(1)),
		EquityPercentage:     ptr(equity),
		BondPercentage:       ptr(bond),
		DerivativePercentage: ptr(derivative),
	}
}

func TestCalculateStoresScore(t *testing.T) {
	lookup := &fakeLookup{portfolios: map[int64]*portfolioapi.Portfolio{
		5: testPortfolio(5, 0, 0, 100),
	}}
	svc, _ := newTestService(t, lookup)

	score, err := svc.Calculate(5)
	require.NoError(t, err)
	assert.Equal(t, 100, score.CalculatedScore)
	assert.Equal(t, LevelHigh, score.RiskLevel)
	assert.Equal(t, time.Now().Format(DateLayout), score.CalculationDate)
	assert.NotZero(t, score.RiskID)
}

func TestCalculateUpsertsByPortfolio(t *testing.T) {
	lookup := &fakeLookup{portfolios: map[int64]*portfolioapi.Portfolio{
		5: testPortfolio(5, 0, 0, 100),
	}}
	svc, repo := newTestService(t, lookup)

	first, err := svc.Calculate(5)
	require.NoError(t, err)

	// Reallocation changes the grade but reuses the row
	lookup.portfolios[5] = testPortfolio(5, 0, 100, 0)
	second, err := svc.Calculate(5)
	require.NoError(t, err)

	assert.Equal(t, first.RiskID, second.RiskID)
	assert.Equal(t, LevelLow, second.RiskLevel)

	stored, err := repo.FindByPortfolioID(5)
	require.NoError(t, err)
	assert.Equal(t, second.CalculatedScore, stored.CalculatedScore)
}

func TestCalculateUnknownPortfolio(t *testing.T) {
	svc, repo := newTestService(t, &fakeLookup{})

	_, err := svc.Calculate(42)
	assert.ErrorIs(t, err, ErrPortfolioNotFound)

	_, err = repo.FindByPortfolioID(42)
	assert.ErrorIs(t, err, ErrScoreNotFound)
}

func TestCalculateIncompleteAllocation(t *testing.T) {
	p := testPortfolio(5, 60, 30, 10)
	p.DerivativePercentage = nil
	svc, _ := newTestService(t, &fakeLookup{portfolios: map[int64]*portfolioapi.Portfolio{5: p}})

	_, err := svc.Calculate(5)
	assert.ErrorIs(t, err, ErrIncompleteData)
}

func TestGetByPortfolioNotFound(t *testing.T) {
	svc, _ := newTestService(t, &fakeLookup{})

	_, err := svc.GetByPortfolio(7)
	assert.ErrorIs(t, err, ErrScoreNotFound)
}
