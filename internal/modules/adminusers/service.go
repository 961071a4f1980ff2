package adminusers

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/portsure/platform/internal/auth"
)

// Service errors
var (
	ErrBadRegistrationKey = errors.New("invalid registration key")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidRole        = errors.New("invalid staff role")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// LoginResult pairs a signed token with the sanitized staff record
type LoginResult struct {
	Token string    `json:"token"`
	User  AdminUser `json:"user"`
}

// Service implements staff account rules. Registration is gated by a shared
// bootstrap key so staff accounts cannot be self-provisioned.
type Service struct {
	repo            *Repository
	tokens          *auth.Manager
	registrationKey string
	log             zerolog.Logger
}

// NewService creates a new admin user service
func NewService(repo *Repository, tokens *auth.Manager, registrationKey string, log zerolog.Logger) *Service {
	return &Service{
		repo:            repo,
		tokens:          tokens,
		registrationKey: registrationKey,
		log:             log.With().Str("service", "adminusers").Logger(),
	}
}

// Register creates a staff account when the supplied key matches the
// configured bootstrap key
func (s *Service) Register(key string, u AdminUser) (*AdminUser, error) {
	if s.registrationKey == "" || key != s.registrationKey {
		return nil, ErrBadRegistrationKey
	}
	if !ValidRole(u.Role) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, u.Role)
	}

	if _, err := s.repo.FindByEmail(u.Email); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmailTaken, u.Email)
	} else if !errors.Is(err, ErrAdminNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u.Password = string(hash)

	created, err := s.repo.Create(u)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("staff_id", created.StaffID).
		Str("role", created.Role).
		Msg("admin user registered")

	sanitized := created.Sanitized()
	return &sanitized, nil
}

// Login verifies credentials and issues a token carrying the stored role
func (s *Service) Login(email, password string) (*LoginResult, error) {
	u, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.log.Info().Str("email", email).Str("role", u.Role).Msg("admin user logged in")
	return &LoginResult{Token: token, User: u.Sanitized()}, nil
}

// Profile returns one staff account with the password blanked
func (s *Service) Profile(staffID int64) (*AdminUser, error) {
	u, err := s.repo.GetByID(staffID)
	if err != nil {
		return nil, err
	}
	sanitized := u.Sanitized()
	return &sanitized, nil
}
