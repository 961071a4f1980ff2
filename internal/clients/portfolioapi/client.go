// Package portfolioapi provides the remote lookup client for the portfolio
// service. Consumers (compliance, risk, alerts) must not share the portfolio
// database, so all reads go through this HTTP client.
package portfolioapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/portsure/platform/internal/auth"
	"github.com/portsure/platform/internal/clientdata"
)

// ErrNotFound is returned when the portfolio does not exist or the portfolio
// service cannot be reached. Callers are expected to treat both the same way;
// the wrapped message carries the distinction for humans.
var ErrNotFound = errors.New("portfolio not found")

// Portfolio is the wire representation served by the portfolio service.
// Percentage fields are pointers: absent means "unknown", which compliance
// must never conflate with zero.
type Portfolio struct {
	PortfolioID          *int64   `json:"portfolioId" msgpack:"portfolio_id"`
	InvestorID           *int64   `json:"investorId" msgpack:"investor_id"`
	PortfolioName        string   `json:"portfolioName" msgpack:"portfolio_name"`
	InvestedAmount       *float64 `json:"investedAmount" msgpack:"invested_amount"`
	EquityPercentage     *float64 `json:"equityPercentage" msgpack:"equity_percentage"`
	BondPercentage       *float64 `json:"bondPercentage" msgpack:"bond_percentage"`
	DerivativePercentage *float64 `json:"derivativePercentage" msgpack:"derivative_percentage"`
	RegulationType       *string  `json:"regulationType" msgpack:"regulation_type"`
	Quantity             *int64   `json:"quantity" msgpack:"quantity"`
	Status               string   `json:"status" msgpack:"status"`
}

// Client for the portfolio service REST API
type Client struct {
	baseURL   string
	client    *http.Client
	log       zerolog.Logger
	tokens    auth.TokenSource
	cacheRepo *clientdata.Repository
}

// NewClient creates a new portfolio service client. tokens authenticates
// requests against the gateway middleware fronting the portfolio endpoints;
// cacheRepo is optional - if nil, caching is disabled.
func NewClient(baseURL string, tokens auth.TokenSource, cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		log:       log.With().Str("client", "portfolioapi").Logger(),
		tokens:    tokens,
		cacheRepo: cacheRepo,
	}
}

// get performs an authenticated GET. Without a token source the request goes
// out bare and the middleware will refuse it, which callers see as not-found.
func (c *Client) get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			c.log.Warn().Err(err).Msg("Failed to mint service token, sending unauthenticated request")
		} else {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return c.client.Do(req)
}

// GetByID fetches one portfolio. A transport failure and a 404 both surface
// as ErrNotFound; a stale cached copy is preferred over failing outright.
func (c *Client) GetByID(id int64) (*Portfolio, error) {
	cacheKey := strconv.FormatInt(id, 10)

	if c.cacheRepo != nil {
		var cached Portfolio
		found, err := c.cacheRepo.GetIfFresh("portfolio_lookup", cacheKey, &cached)
		if err == nil && found {
			c.log.Debug().Int64("portfolio_id", id).Msg("Cache hit")
			return &cached, nil
		}
	}

	url := fmt.Sprintf("%s/api/portfolios/%d", c.baseURL, id)
	resp, err := c.get(url)
	if err != nil {
		if stale, ok := c.getStaleByID(cacheKey); ok {
			c.log.Warn().Err(err).Int64("portfolio_id", id).Msg("Portfolio service unreachable, using stale cached portfolio")
			return stale, nil
		}
		return nil, fmt.Errorf("%w: portfolio service unreachable for id %d: %v", ErrNotFound, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if stale, ok := c.getStaleByID(cacheKey); ok && resp.StatusCode >= http.StatusInternalServerError {
			c.log.Warn().Int("status", resp.StatusCode).Int64("portfolio_id", id).Msg("Portfolio service error, using stale cached portfolio")
			return stale, nil
		}
		return nil, fmt.Errorf("%w: portfolio service returned status %d for id %d", ErrNotFound, resp.StatusCode, id)
	}

	var portfolio Portfolio
	if err := json.NewDecoder(resp.Body).Decode(&portfolio); err != nil {
		return nil, fmt.Errorf("%w: failed to parse portfolio response for id %d: %v", ErrNotFound, id, err)
	}
	if portfolio.PortfolioID == nil {
		return nil, fmt.Errorf("%w: portfolio service returned an empty record for id %d", ErrNotFound, id)
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store("portfolio_lookup", cacheKey, portfolio, clientdata.TTLPortfolioLookup); err != nil {
			c.log.Warn().Err(err).Msg("Failed to cache portfolio")
		}
	}

	return &portfolio, nil
}

// GetAll fetches the full portfolio list. Any failure degrades to an empty
// list - bulk consumers treat "unavailable" the same as "nothing to audit".
func (c *Client) GetAll() []Portfolio {
	url := c.baseURL + "/api/portfolios/all"
	resp, err := c.get(url)
	if err != nil {
		c.log.Warn().Err(err).Msg("Portfolio service unreachable, treating portfolio list as empty")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Msg("Portfolio service error, treating portfolio list as empty")
		return nil
	}

	var portfolios []Portfolio
	if err := json.NewDecoder(resp.Body).Decode(&portfolios); err != nil {
		c.log.Warn().Err(err).Msg("Failed to parse portfolio list, treating as empty")
		return nil
	}

	return portfolios
}

func (c *Client) getStaleByID(cacheKey string) (*Portfolio, bool) {
	if c.cacheRepo == nil {
		return nil, false
	}
	var cached Portfolio
	found, err := c.cacheRepo.GetStale("portfolio_lookup", cacheKey, &cached)
	if err != nil || !found {
		return nil, false
	}
	return &cached, true
}
