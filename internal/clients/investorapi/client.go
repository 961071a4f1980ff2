// Package investorapi provides the remote lookup client the portfolio
// service uses to validate investor identity on submission.
package investorapi

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

// ErrNotFound is returned when the investor does not exist or the investor
// service cannot be reached.
var ErrNotFound = errors.New("investor not found")

// Investor is the wire representation served by the investor service.
// The password field is never present on this surface.
type Investor struct {
	InvestorID  *int64 `json:"investorId" msgpack:"investor_id"`
	FullName    string `json:"fullName" msgpack:"full_name"`
	Email       string `json:"email" msgpack:"email"`
	PhoneNumber string `json:"phoneNumber" msgpack:"phone_number"`
}

// Client for the investor service REST API
type Client struct {
	baseURL   string
	client    *http.Client
	log       zerolog.Logger
	tokens    auth.TokenSource
	cacheRepo *clientdata.Repository
}

// NewClient creates a new investor service client. tokens authenticates
// requests against the gateway middleware fronting the investor endpoints;
// cacheRepo is optional - if nil, caching is disabled.
func NewClient(baseURL string, tokens auth.TokenSource, cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		log:       log.With().Str("client", "investorapi").Logger(),
		tokens:    tokens,
		cacheRepo: cacheRepo,
	}
}

// GetByID fetches one investor. Transport failures and 404s both surface as
// ErrNotFound.
func (c *Client) GetByID(id int64) (*Investor, error) {
	cacheKey := strconv.FormatInt(id, 10)

	if c.cacheRepo != nil {
		var cached Investor
		found, err := c.cacheRepo.GetIfFresh("investor_lookup", cacheKey, &cached)
		if err == nil && found {
			c.log.Debug().Int64("investor_id", id).Msg("Cache hit")
			return &cached, nil
		}
	}

	url := fmt.Sprintf("%s/api/investors/%d", c.baseURL, id)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: bad investor request for id %d: %v", ErrNotFound, id, err)
	}
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			c.log.Warn().Err(err).Msg("Failed to mint service token, sending unauthenticated request")
		} else {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: investor service unreachable for id %d: %v", ErrNotFound, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: investor service returned status %d for id %d", ErrNotFound, resp.StatusCode, id)
	}

	var investor Investor
	if err := json.NewDecoder(resp.Body).Decode(&investor); err != nil {
		return nil, fmt.Errorf("%w: failed to parse investor response for id %d: %v", ErrNotFound, id, err)
	}
	if investor.InvestorID == nil {
		return nil, fmt.Errorf("%w: investor service returned an empty record for id %d", ErrNotFound, id)
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store("investor_lookup", cacheKey, investor, clientdata.TTLInvestorLookup); err != nil {
			c.log.Warn().Err(err).Msg("Failed to cache investor")
		}
	}

	return &investor, nil
}
