package clientdata

import "time"

// TTL constants for cached remote lookups. Portfolio rows change on every
// submission or approval, so the windows are short.
const (
	TTLPortfolioLookup = 2 * time.Minute
	TTLInvestorLookup  = 10 * time.Minute
)
