// Package adminusers implements internal staff accounts for compliance
// officers and asset managers.
package adminusers

import "github.com/portsure/platform/internal/auth"

// AdminUser is an internal staff account. Password holds the bcrypt hash in
// storage and is blanked before serialization.
type AdminUser struct {
	StaffID  int64  `json:"staffId"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// ValidRole reports whether role is one staff accounts may hold
func ValidRole(role string) bool {
	return role == auth.RoleComplianceOfficer || role == auth.RoleAssetManager
}

// Sanitized returns a copy safe to serialize
func (u AdminUser) Sanitized() AdminUser {
	u.Password = ""
	return u
}
