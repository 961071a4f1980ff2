package investors

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/portsure/platform/internal/auth"
)

// Service errors
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrIdentityMismatch   = errors.New("identity verification failed")
)

// LoginResult pairs a signed token with the sanitized account record
type LoginResult struct {
	Token    string   `json:"token"`
	Investor Investor `json:"investor"`
}

// Service implements investor account rules on top of the repository
type Service struct {
	repo   *Repository
	tokens *auth.Manager
	log    zerolog.Logger
}

// NewService creates a new investor service
func NewService(repo *Repository, tokens *auth.Manager, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		log:    log.With().Str("service", "investors").Logger(),
	}
}

// Register creates a new investor account. The plaintext password is hashed
// with bcrypt before storage.
func (s *Service) Register(inv Investor) (*Investor, error) {
	if _, err := s.repo.FindByEmail(inv.Email); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmailTaken, inv.Email)
	} else if !errors.Is(err, ErrInvestorNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(inv.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	inv.Password = string(hash)

	created, err := s.repo.Create(inv)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("investor_id", created.InvestorID).Str("email", created.Email).Msg("investor registered")

	sanitized := created.Sanitized()
	return &sanitized, nil
}

// Login verifies credentials and issues a signed token with the INVESTOR role
func (s *Service) Login(email, password string) (*LoginResult, error) {
	inv, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrInvestorNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(inv.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(inv.Email, auth.RoleInvestor)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.log.Info().Str("email", email).Msg("investor logged in")
	return &LoginResult{Token: token, Investor: inv.Sanitized()}, nil
}

// GetAll returns every investor with passwords blanked
func (s *Service) GetAll() ([]Investor, error) {
	list, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i] = list[i].Sanitized()
	}
	return list, nil
}

// GetByID returns one investor with the password blanked
func (s *Service) GetByID(id int64) (*Investor, error) {
	inv, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	sanitized := inv.Sanitized()
	return &sanitized, nil
}

// UpdateProfile changes name, email and phone on an existing account
func (s *Service) UpdateProfile(id int64, inv Investor) (*Investor, error) {
	inv.InvestorID = id
	if err := s.repo.UpdateProfile(inv); err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// ChangePassword sets a new password after verifying the account holder's
// full name. A mismatched name is treated as a failed identity check.
func (s *Service) ChangePassword(id int64, fullName, newPassword string) error {
	inv, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if inv.FullName != fullName {
		return ErrIdentityMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(id, string(hash)); err != nil {
		return err
	}

	s.log.Info().Int64("investor_id", id).Msg("investor password changed")
	return nil
}

// CheckEmail reports whether an account exists for email
func (s *Service) CheckEmail(email string) (bool, error) {
	_, err := s.repo.FindByEmail(email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrInvestorNotFound) {
		return false, nil
	}
	return false, err
}

// ResetPassword sets a new password for the account registered under email
func (s *Service) ResetPassword(email, newPassword string) error {
	inv, err := s.repo.FindByEmail(email)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(inv.InvestorID, string(hash)); err != nil {
		return err
	}

	s.log.Info().Str("email", email).Msg("investor password reset")
	return nil
}
