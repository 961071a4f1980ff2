// Package compliance implements the compliance audit engine: rule
// evaluation, report persistence with upsert-by-portfolio semantics, and the
// audit orchestration over the remote portfolio service.
package compliance

// Compliance verdicts
const (
	StatusCompliant    = "COMPLIANT"
	StatusNonCompliant = "NON-COMPLIANT"
)

// DefaultRegulationType is applied when a portfolio carries no regulation
// type of its own.
const DefaultRegulationType = "SEBI"

// DateLayout is the ISO-8601 calendar-date form used for report dates.
// Reports carry evaluation dates, not times of day.
const DateLayout = "2006-01-02"

// Report is one compliance verdict for a portfolio. At most one current
// report exists per portfolio; re-audits overwrite in place.
type Report struct {
	LogID            int64  `json:"logId"`
	PortfolioID      int64  `json:"portfolioId"`
	RegulationType   string `json:"regulationType"`
	Findings         string `json:"findings"`
	ComplianceStatus string `json:"complianceStatus"`
	Date             string `json:"date"` // ISO-8601 calendar date
}
