// Package portfolios implements the portfolio store: submission, the
// approval lifecycle, and the read API consumed by the compliance, risk and
// alert services.
package portfolios

// Status is the portfolio lifecycle tag
type Status string

// Portfolio lifecycle states
const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusAllocated Status = "Allocated"
)

// ValidStatus reports whether s is a known lifecycle state
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusAllocated:
		return true
	}
	return false
}

// DateLayout is the ISO-8601 calendar-date form used for request dates
const DateLayout = "2006-01-02"

// Portfolio is an investor's proposed or approved asset allocation record.
// Percentage fields are pointers: absent means the investor never supplied
// them, which downstream consumers must not read as zero.
type Portfolio struct {
	PortfolioID          int64    `json:"portfolioId"`
	PortfolioName        string   `json:"portfolioName"`
	InvestedAmount       *float64 `json:"investedAmount"`
	RequestDate          string   `json:"requestDate"` // ISO-8601 calendar date
	EquityPercentage     *float64 `json:"equityPercentage"`
	BondPercentage       *float64 `json:"bondPercentage"`
	DerivativePercentage *float64 `json:"derivativePercentage"`
	RegulationType       *string  `json:"regulationType"`
	Quantity             *int64   `json:"quantity"`
	Status               Status   `json:"status"`
	InvestorID           int64    `json:"investorId"`
}
