// Package riskscores derives a numeric risk grade for each portfolio from
// its asset allocation.
package riskscores

// Risk levels derived from the calculated score
const (
	LevelLow    = "LOW"
	LevelMedium = "MEDIUM"
	LevelHigh   = "HIGH"
)

// DateLayout is the ISO-8601 calendar-date form used for calculation dates
const DateLayout = "2006-01-02"

// RiskScore is the stored grade for one portfolio. One row per portfolio;
// recalculation overwrites in place.
type RiskScore struct {
	RiskID               int64   `json:"riskId"`
	PortfolioID          int64   `json:"portfolioId"`
	EquityPercentage     float64 `json:"equityPercentage"`
	BondPercentage       float64 `json:"bondPercentage"`
	DerivativePercentage float64 `json:"derivativePercentage"`
	CalculatedScore      int     `json:"calculatedScore"`
	RiskLevel            string  `json:"riskLevel"`
	CalculationDate      string  `json:"calculationDate"`
}
