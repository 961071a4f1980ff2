// Package investors implements investor registration, authentication and
// profile management.
package investors

// Investor is a registered platform client. Password holds the bcrypt hash
// in storage and is blanked before any response leaves the service.
type Investor struct {
	InvestorID  int64  `json:"investorId"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password,omitempty"`
	PhoneNumber string `json:"phoneNumber"`
}

// Sanitized returns a copy safe to serialize
func (i Investor) Sanitized() Investor {
	i.Password = ""
	return i
}
