// Package alerts records exposure limit breaches against portfolios and
// streams new alerts to connected dashboards.
package alerts

// Alert statuses. Status is derived from the exposure and limit values when
// the caller does not supply one.
const (
	StatusBreach = "BREACH"
	StatusOK     = "OK"
)

// TimeLayout is the timestamp form used for alert creation times
const TimeLayout = "2006-01-02T15:04:05Z07:00"

// ExposureAlert is one recorded exposure event for a portfolio
type ExposureAlert struct {
	AlertID       int64   `json:"alertId"`
	PortfolioID   int64   `json:"portfolioId"`
	InvestorID    int64   `json:"investorId"`
	AssetType     string  `json:"assetType"`
	ExposureValue float64 `json:"exposureValue"`
	LimitValue    float64 `json:"limitValue"`
	Status        string  `json:"status"`
	Timestamp     string  `json:"timestamp"`
}
