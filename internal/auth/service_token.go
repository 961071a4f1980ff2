package auth

import (
	"sync"
	"time"
)

// TokenSource supplies a bearer token for outbound requests
type TokenSource interface {
	Token() (string, error)
}

// ServiceTokenSource mints SERVICE-role tokens for the internal lookup
// clients. The same gateway middleware that fronts the public API also sits
// in front of the service-to-service read paths, so those calls carry their
// own credentials instead of being exempted from validation.
type ServiceTokenSource struct {
	manager *Manager
	subject string

	mu      sync.Mutex
	token   string
	renewAt time.Time
}

// NewServiceTokenSource creates a token source identified by subject
func NewServiceTokenSource(manager *Manager, subject string) *ServiceTokenSource {
	return &ServiceTokenSource{manager: manager, subject: subject}
}

// Token returns a valid service token, reusing the cached one until it is
// halfway through its lifetime.
func (s *ServiceTokenSource) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.renewAt) {
		return s.token, nil
	}

	token, err := s.manager.Generate(s.subject, RoleService)
	if err != nil {
		return "", err
	}

	s.token = token
	s.renewAt = time.Now().Add(s.manager.ttl / 2)
	return token, nil
}
