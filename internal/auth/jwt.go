// Package auth provides JWT issuing and validation shared by the investor,
// admin-user and gateway-middleware code paths.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Roles carried in tokens. Investors always get RoleInvestor; internal users
// carry the role stored on their admin_users row.
const (
	RoleInvestor          = "INVESTOR"
	RoleComplianceOfficer = "COMPLIANCE_OFFICER"
	RoleAssetManager      = "ASSET_MANAGER"
	RoleService           = "SERVICE"
)

// Claims is the JWT payload used across all services
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and validates HS256 tokens
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token manager. ttl bounds token validity.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Generate issues a signed token for the given identity and role
func (m *Manager) Generate(email, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token, returning its claims
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
