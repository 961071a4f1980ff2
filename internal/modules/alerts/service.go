package alerts

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/portsure/platform/internal/clients/portfolioapi"
	"github.com/portsure/platform/internal/events"
)

// Service errors
var (
	ErrInvalidPortfolio = errors.New("invalid portfolio for alert")
	ErrMissingInvestor  = errors.New("alert requires an investor id")
)

// PortfolioLookup fetches portfolio records from the portfolio service
type PortfolioLookup interface {
	GetByID(portfolioID int64) (*portfolioapi.Portfolio, error)
}

// Service records exposure alerts and publishes them on the event bus for
// live streaming.
type Service struct {
	repo     *Repository
	lookup   PortfolioLookup
	eventBus *events.Bus
	log      zerolog.Logger
}

// NewService creates a new alert service
func NewService(repo *Repository, lookup PortfolioLookup, eventBus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		lookup:   lookup,
		eventBus: eventBus,
		log:      log.With().Str("service", "alerts").Logger(),
	}
}

// Create records an alert against a portfolio. The portfolio must resolve
// through the portfolio service; status defaults from the exposure/limit
// comparison and the timestamp defaults to now.
func (s *Service) Create(portfolioID int64, a ExposureAlert) (*ExposureAlert, error) {
	if a.InvestorID == 0 {
		return nil, ErrMissingInvestor
	}

	if _, err := s.lookup.GetByID(portfolioID); err != nil {
		if errors.Is(err, portfolioapi.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrInvalidPortfolio, portfolioID)
		}
		return nil, fmt.Errorf("failed to verify portfolio %d: %w", portfolioID, err)
	}

	a.PortfolioID = portfolioID
	if a.Status == "" {
		a.Status = StatusOK
		if a.ExposureValue > a.LimitValue {
			a.Status = StatusBreach
		}
	}
	if a.Timestamp == "" {
		a.Timestamp = time.Now().Format(TimeLayout)
	}

	created, err := s.repo.Create(a)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("alert_id", created.AlertID).
		Int64("portfolio_id", portfolioID).
		Str("status", created.Status).
		Msg("exposure alert recorded")

	if s.eventBus != nil {
		s.eventBus.Publish(events.AlertRaised, created)
	}

	return created, nil
}

// GetAll returns every alert
func (s *Service) GetAll() ([]ExposureAlert, error) {
	return s.repo.GetAll()
}

// GetByInvestor returns all alerts for one investor
func (s *Service) GetByInvestor(investorID int64) ([]ExposureAlert, error) {
	return s.repo.GetByInvestor(investorID)
}

// Delete removes an alert
func (s *Service) Delete(alertID int64) error {
	return s.repo.Delete(alertID)
}
