package compliance

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portsure/platform/internal/clients/portfolioapi"
)

func ptr[T any](v T) *T { return &v }

// fakeLookup satisfies PortfolioLookup without a network
type fakeLookup struct {
	portfolios map[int64]*portfolioapi.Portfolio
	all        []portfolioapi.Portfolio
}

func (f *fakeLookup) GetByID(id int64) (*portfolioapi.Portfolio, error) {
	if p, ok := f.portfolios[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: portfolio service returned status 404 for id %d", portfolioapi.ErrNotFound, id)
}

func (f *fakeLookup) GetAll() []portfolioapi.Portfolio {
	return f.all
}

func testPortfolio(id int64, equity, bond, derivative float64, regulation string) portfolioapi.Portfolio {
	p := portfolioapi.Portfolio{
		PortfolioID:          ptr(id),
		InvestorID:           ptr(int64(1)),
		EquityPercentage:     ptr(equity),
		BondPercentage:       ptr(bond),
		DerivativePercentage: ptr(derivative),
		Status:               "Approved",
	}
	if regulation != "" {
		p.RegulationType = ptr(regulation)
	}
	return p
}

func newTestService(t *testing.T, lookup PortfolioLookup) (*AuditService, *Repository) {
	repo := newTestRepo(t)
	return NewAuditService(repo, lookup, nil, zerolog.Nop()), repo
}

func TestAuditOne(t *testing.T) {
	p := testPortfolio(5, 30, 5, 20, "SEBI")
	svc, repo := newTestService(t, &fakeLookup{portfolios: map[int64]*portfolioapi.Portfolio{5: &p}})

	report, err := svc.AuditOne(5)
	require.NoError(t, err)
	assert.Equal(t, StatusNonCompliant, report.ComplianceStatus)
	assert.Equal(t, "derivative risk exceeds bond coverage", report.Findings)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAuditOneLookupFailureTouchesNothing(t *testing.T) {
	svc, repo := newTestService(t, &fakeLookup{})

	_, err := svc.AuditOne(42)
	assert.ErrorIs(t, err, portfolioapi.ErrNotFound)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAuditOneIncompleteDataIsRefused(t *testing.T) {
	p := testPortfolio(5, 30, 5, 20, "SEBI")
	p.BondPercentage = nil
	svc, repo := newTestService(t, &fakeLookup{portfolios: map[int64]*portfolioapi.Portfolio{5: &p}})

	_, err := svc.AuditOne(5)
	assert.ErrorIs(t, err, ErrIncompleteData)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestReauditUpsertsSingleRow(t *testing.T) {
	p := testPortfolio(5, 50, 40, 10, "SEBI")
	svc, repo := newTestService(t, &fakeLookup{portfolios: map[int64]*portfolioapi.Portfolio{5: &p}})

	first, err := svc.AuditOne(5)
	require.NoError(t, err)
	assert.Equal(t, StatusCompliant, first.ComplianceStatus)

	// Portfolio drifts out of compliance; re-audit must overwrite, not append
	p.DerivativePercentage = ptr(60.0)
	second, err := svc.AuditOne(5)
	require.NoError(t, err)
	assert.Equal(t, StatusNonCompliant, second.ComplianceStatus)
	assert.Equal(t, first.LogID, second.LogID)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAuditAllSkipsIncompleteWithoutAborting(t *testing.T) {
	var all []portfolioapi.Portfolio
	for i := int64(1); i <= 9; i++ {
		all = append(all, testPortfolio(i, 50, 40, 10, "SEBI"))
	}
	incomplete := testPortfolio(10, 50, 0, 10, "SEBI")
	incomplete.BondPercentage = nil
	all = append(all, incomplete)

	svc, repo := newTestService(t, &fakeLookup{all: all})

	reports, err := svc.AuditAll()
	require.NoError(t, err)
	assert.Len(t, reports, 9)

	_, err = repo.FindByPortfolioID(10)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestAuditAllEmptyListIsNoOp(t *testing.T) {
	svc, repo := newTestService(t, &fakeLookup{})

	// Seed one pre-existing report; the no-op run must return it unchanged
	_, err := repo.Upsert(Report{PortfolioID: 1, ComplianceStatus: StatusCompliant, Findings: "no violations detected"})
	require.NoError(t, err)

	reports, err := svc.AuditAll()
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, int64(1), reports[0].PortfolioID)
}

func TestAuditAllReturnsFullReportSet(t *testing.T) {
	all := []portfolioapi.Portfolio{testPortfolio(2, 50, 40, 10, "SEBI")}
	svc, repo := newTestService(t, &fakeLookup{all: all})

	// A report for a portfolio not in this run must still be returned
	_, err := repo.Upsert(Report{PortfolioID: 99, ComplianceStatus: StatusNonCompliant})
	require.NoError(t, err)

	reports, err := svc.AuditAll()
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

func TestAuditAllDefaultsRegulationType(t *testing.T) {
	all := []portfolioapi.Portfolio{testPortfolio(3, 30, 5, 20, "")}
	svc, repo := newTestService(t, &fakeLookup{all: all})

	_, err := svc.AuditAll()
	require.NoError(t, err)

	report, err := repo.FindByPortfolioID(3)
	require.NoError(t, err)
	assert.Equal(t, DefaultRegulationType, report.RegulationType)
	assert.Equal(t, StatusNonCompliant, report.ComplianceStatus)
}

func TestAuditAllMiFID(t *testing.T) {
	all := []portfolioapi.Portfolio{
		testPortfolio(1, 30, 10, 60, "MiFID II"),
		testPortfolio(2, 50, 30, 20, "MiFID II"),
	}
	svc, repo := newTestService(t, &fakeLookup{all: all})

	_, err := svc.AuditAll()
	require.NoError(t, err)

	speculative, err := repo.FindByPortfolioID(1)
	require.NoError(t, err)
	assert.Equal(t, StatusNonCompliant, speculative.ComplianceStatus)

	clean, err := repo.FindByPortfolioID(2)
	require.NoError(t, err)
	assert.Equal(t, StatusCompliant, clean.ComplianceStatus)
}
