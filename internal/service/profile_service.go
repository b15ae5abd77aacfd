package service

import (
	"strings"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/google/uuid"
)

// ProfileService handles profile provisioning and profile-related business
// logic
type ProfileService struct {
	profileRepo domain.ProfileRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo domain.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// EnsureProfile provisions a profile for the authenticated subject if one
// does not exist yet. Called on every sign-in; the upsert makes it
// idempotent.
func (s *ProfileService) EnsureProfile(userID, email, name string) (*domain.Profile, error) {
	return s.profileRepo.CreateOrGetByUserID(userID, email, name)
}

// GetProfile retrieves a profile by its ID
func (s *ProfileService) GetProfile(id uuid.UUID) (*domain.Profile, error) {
	return s.profileRepo.GetByID(id)
}

// GetProfileByUserID retrieves a profile by its OIDC subject
func (s *ProfileService) GetProfileByUserID(userID string) (*domain.Profile, error) {
	return s.profileRepo.GetByUserID(userID)
}

// UpdateName changes the profile's display name
func (s *ProfileService) UpdateName(id uuid.UUID, name string) (*domain.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryNameLength {
		return nil, domain.ErrNameTooLong
	}
	return s.profileRepo.UpdateName(id, name)
}
