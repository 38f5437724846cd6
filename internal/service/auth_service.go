package service

import (
	"github.com/fintrack-app/fintrack-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// AuthService handles user bootstrap from identity provider claims
type AuthService struct {
	userRepo domain.UserRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// HandleCallback creates or fetches the user for the validated Auth0
// identity and records the login.
func (s *AuthService) HandleCallback(auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	user, err := s.userRepo.CreateOrGetByAuth0ID(auth0ID, email, name, pictureURL)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.TouchLastLogin(user.ID); err != nil {
		// Login bookkeeping is non-critical
		log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("Failed to record last login")
	}

	return user, nil
}

// GetUserByAuth0ID retrieves a user by their Auth0 subject
func (s *AuthService) GetUserByAuth0ID(auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(auth0ID)
}
