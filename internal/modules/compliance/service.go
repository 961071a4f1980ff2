package compliance

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/portsure/platform/internal/clients/portfolioapi"
	"github.com/portsure/platform/internal/events"
)

// ErrIncompleteData marks portfolios whose percentage fields are absent.
// An unknown percentage is not zero: evaluating it anyway would silently
// mis-classify risk, so these portfolios are refused (single path) or
// skipped (bulk path).
var ErrIncompleteData = errors.New("portfolio is missing allocation percentages")

// PortfolioLookup is the remote read contract the audit service consumes
type PortfolioLookup interface {
	GetByID(id int64) (*portfolioapi.Portfolio, error)
	GetAll() []portfolioapi.Portfolio
}

// AuditService orchestrates compliance audits: fetch portfolios, evaluate
// the rule engine, upsert the resulting reports.
type AuditService struct {
	repo     *Repository
	lookup   PortfolioLookup
	eventBus *events.Bus
	log      zerolog.Logger
}

// NewAuditService creates a new audit service. eventBus is optional.
func NewAuditService(repo *Repository, lookup PortfolioLookup, eventBus *events.Bus, log zerolog.Logger) *AuditService {
	return &AuditService{
		repo:     repo,
		lookup:   lookup,
		eventBus: eventBus,
		log:      log.With().Str("service", "compliance_audit").Logger(),
	}
}

// AuditOne audits a single portfolio by id. Lookup failures surface to the
// caller without touching storage; otherwise the verdict is upserted and the
// saved report returned.
func (s *AuditService) AuditOne(portfolioID int64) (*Report, error) {
	portfolio, err := s.lookup.GetByID(portfolioID)
	if err != nil {
		return nil, fmt.Errorf("audit aborted: %w", err)
	}

	report, err := s.auditPortfolio(portfolio)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("portfolio_id", portfolioID).
		Str("status", report.ComplianceStatus).
		Msg("Portfolio audited")

	return report, nil
}

// AuditAll audits every portfolio the portfolio service returns. An empty or
// unavailable list is a no-op, not an error. Each portfolio is processed
// independently: one failure never aborts the batch. The returned slice is
// the full current report set, not just the reports touched in this run.
func (s *AuditService) AuditAll() ([]Report, error) {
	portfolios := s.lookup.GetAll()
	if len(portfolios) == 0 {
		s.log.Info().Msg("No portfolios available, audit run is a no-op")
		return s.repo.GetAll()
	}

	audited, skipped := 0, 0
	for i := range portfolios {
		if _, err := s.auditPortfolio(&portfolios[i]); err != nil {
			skipped++
			s.log.Warn().Err(err).Msg("Skipping portfolio in bulk audit")
			continue
		}
		audited++
	}

	s.log.Info().
		Int("audited", audited).
		Int("skipped", skipped).
		Msg("Bulk audit completed")

	if s.eventBus != nil {
		s.eventBus.Publish(events.AuditCompleted, map[string]int{
			"audited": audited,
			"skipped": skipped,
		})
	}

	return s.repo.GetAll()
}

// auditPortfolio evaluates one portfolio and upserts its report
func (s *AuditService) auditPortfolio(p *portfolioapi.Portfolio) (*Report, error) {
	if p == nil || p.PortfolioID == nil {
		return nil, fmt.Errorf("%w: no portfolio id", ErrIncompleteData)
	}
	if p.EquityPercentage == nil || p.BondPercentage == nil || p.DerivativePercentage == nil {
		return nil, fmt.Errorf("%w: portfolio %d", ErrIncompleteData, *p.PortfolioID)
	}

	regulationType := DefaultRegulationType
	if p.RegulationType != nil && *p.RegulationType != "" {
		regulationType = *p.RegulationType
	}

	verdict := Evaluate(*p.EquityPercentage, *p.BondPercentage, *p.DerivativePercentage, regulationType)
	if !verdict.KnownRegulation {
		// Likely a data problem rather than a genuinely exempt portfolio
		s.log.Warn().
			Int64("portfolio_id", *p.PortfolioID).
			Str("regulation_type", regulationType).
			Msg("No rule set for regulation type, recording permissive verdict")
	}

	report, err := s.repo.Upsert(Report{
		PortfolioID:      *p.PortfolioID,
		RegulationType:   regulationType,
		Findings:         verdict.Findings,
		ComplianceStatus: verdict.Status,
	})
	if err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(events.ReportUpserted, report)
	}

	return report, nil
}

// Reports returns the full current report list
func (s *AuditService) Reports() ([]Report, error) {
	return s.repo.GetAll()
}

// CreateReport persists a caller-supplied report row (manual log entry)
func (s *AuditService) CreateReport(report Report) (*Report, error) {
	return s.repo.Create(report)
}

// DeleteReport removes a report by log id
func (s *AuditService) DeleteReport(logID int64) error {
	return s.repo.DeleteByID(logID)
}
