package portfolios

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/portsure/platform/internal/clients/investorapi"
)

// Service errors
var (
	ErrInvestorNotFound = errors.New("investor not found")
	ErrInvalidStatus    = errors.New("invalid portfolio status")
)

// InvestorLookup fetches investor records from the investor service
type InvestorLookup interface {
	GetByID(investorID int64) (*investorapi.Investor, error)
}

// Service implements portfolio business rules on top of the repository
type Service struct {
	repo      *Repository
	investors InvestorLookup
	log       zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(repo *Repository, investors InvestorLookup, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		investors: investors,
		log:       log.With().Str("service", "portfolios").Logger(),
	}
}

// GetAll returns every portfolio
func (s *Service) GetAll() ([]Portfolio, error) {
	return s.repo.GetAll()
}

// GetByID returns one portfolio
func (s *Service) GetByID(id int64) (*Portfolio, error) {
	return s.repo.GetByID(id)
}

// GetByInvestor returns all portfolios for one investor
func (s *Service) GetByInvestor(investorID int64) ([]Portfolio, error) {
	return s.repo.GetByInvestor(investorID)
}

// Submit records a new portfolio for an investor. The investor must exist in
// the investor service; submissions always enter the lifecycle as Pending
// with the request date set to today.
func (s *Service) Submit(investorID int64, p Portfolio) (*Portfolio, error) {
	investor, err := s.investors.GetByID(investorID)
	if err != nil {
		if errors.Is(err, investorapi.ErrNotFound) {
			return nil, fmt.Errorf("%w: investor %d", ErrInvestorNotFound, investorID)
		}
		return nil, fmt.Errorf("failed to verify investor %d: %w", investorID, err)
	}

	p.InvestorID = investorID
	p.Status = StatusPending
	p.RequestDate = time.Now().Format(DateLayout)

	created, err := s.repo.Create(p)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("portfolio_id", created.PortfolioID).
		Int64("investor_id", investorID).
		Str("investor_email", investor.Email).
		Msg("portfolio submitted")

	return created, nil
}

// Update replaces a portfolio's fields with the supplied values. Updating is
// a manager action; the result is always marked Approved.
func (s *Service) Update(id int64, p Portfolio) (*Portfolio, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	p.PortfolioID = id
	p.InvestorID = existing.InvestorID
	p.Status = StatusApproved
	if p.RequestDate == "" {
		p.RequestDate = existing.RequestDate
	}

	if err := s.repo.Update(p); err != nil {
		return nil, err
	}

	s.log.Info().Int64("portfolio_id", id).Msg("portfolio updated and approved")
	return &p, nil
}

// UpdateStatus moves a portfolio to a new lifecycle state
func (s *Service) UpdateStatus(id int64, status Status) (*Portfolio, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if err := s.repo.UpdateStatus(id, status); err != nil {
		return nil, err
	}

	s.log.Info().Int64("portfolio_id", id).Str("status", string(status)).Msg("portfolio status changed")
	return s.repo.GetByID(id)
}

// Resubmit sends a rejected portfolio back through review with fresh values.
// The record returns to Pending with today's date.
func (s *Service) Resubmit(id int64, p Portfolio) (*Portfolio, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	p.PortfolioID = id
	p.InvestorID = existing.InvestorID
	p.Status = StatusPending
	p.RequestDate = time.Now().Format(DateLayout)

	if err := s.repo.Update(p); err != nil {
		return nil, err
	}

	s.log.Info().Int64("portfolio_id", id).Msg("portfolio resubmitted")
	return &p, nil
}

// Delete removes a portfolio
func (s *Service) Delete(id int64) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.log.Info().Int64("portfolio_id", id).Msg("portfolio deleted")
	return nil
}
