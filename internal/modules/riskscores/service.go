package riskscores

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/portsure/platform/internal/clients/portfolioapi"
)

// Service errors
var (
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrIncompleteData    = errors.New("portfolio is missing percentage allocations")
)

// PortfolioLookup fetches portfolio records from the portfolio service
type PortfolioLookup interface {
	GetByID(portfolioID int64) (*portfolioapi.Portfolio, error)
}

// Service computes and stores risk scores
type Service struct {
	repo   *Repository
	lookup PortfolioLookup
	log    zerolog.Logger
}

// NewService creates a new risk score service
func NewService(repo *Repository, lookup PortfolioLookup, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		lookup: lookup,
		log:    log.With().Str("service", "riskscores").Logger(),
	}
}

// Calculate grades one portfolio and upserts the result. The portfolio must
// be reachable through the portfolio service; a lookup failure leaves
// storage untouched.
func (s *Service) Calculate(portfolioID int64) (*RiskScore, error) {
	portfolio, err := s.lookup.GetByID(portfolioID)
	if err != nil {
		if errors.Is(err, portfolioapi.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrPortfolioNotFound, portfolioID)
		}
		return nil, fmt.Errorf("failed to fetch portfolio %d: %w", portfolioID, err)
	}

	if portfolio.EquityPercentage == nil || portfolio.BondPercentage == nil || portfolio.DerivativePercentage == nil {
		return nil, fmt.Errorf("%w: portfolio %d", ErrIncompleteData, portfolioID)
	}

	equity := *portfolio.EquityPercentage
	bond := *portfolio.BondPercentage
	derivative := *portfolio.DerivativePercentage

	score, level := Score(equity, bond, derivative)

	saved, err := s.repo.Upsert(RiskScore{
		PortfolioID:          portfolioID,
		EquityPercentage:     equity,
		BondPercentage:       bond,
		DerivativePercentage: derivative,
		CalculatedScore:      score,
		RiskLevel:            level,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("portfolio_id", portfolioID).
		Int("score", score).
		Str("level", level).
		Msg("risk score calculated")

	return saved, nil
}

// GetByPortfolio returns the current grade for a portfolio
func (s *Service) GetByPortfolio(portfolioID int64) (*RiskScore, error) {
	return s.repo.FindByPortfolioID(portfolioID)
}
