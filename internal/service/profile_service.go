package service

import (
	"strings"

	"github.com/fintrack-app/fintrack-backend/internal/domain"
	"github.com/google/uuid"
)

// ProfileService handles user profile business logic
type ProfileService struct {
	userRepo domain.UserRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo domain.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile updates the user's display name
func (s *ProfileService) UpdateProfile(userID uuid.UUID, name string) (*domain.User, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, domain.ErrNameRequired
	}
	if len(trimmed) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	user.Name = &trimmed
	return s.userRepo.Update(user)
}
