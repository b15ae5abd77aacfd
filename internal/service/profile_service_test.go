package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/testutil"
	"github.com/google/uuid"
)

func TestEnsureProfile_Idempotent(t *testing.T) {
	profileRepo := testutil.NewMockProfileRepository()
	svc := NewProfileService(profileRepo)

	first, err := svc.EnsureProfile("auth0|abc", "jo@example.com", "Jo")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	second, err := svc.EnsureProfile("auth0|abc", "jo@example.com", "Jo")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("Expected the same profile on repeated sync, got %s and %s", first.ID, second.ID)
	}
	if len(profileRepo.Profiles) != 1 {
		t.Errorf("Expected 1 profile, got %d", len(profileRepo.Profiles))
	}
}

func TestUpdateName_Validation(t *testing.T) {
	profileRepo := testutil.NewMockProfileRepository()
	svc := NewProfileService(profileRepo)

	profile := profileRepo.AddProfile(&domain.Profile{
		UserID: "auth0|abc",
		Email:  "jo@example.com",
		Name:   "Jo",
	})

	if _, err := svc.UpdateName(profile.ID, "  "); !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
	if _, err := svc.UpdateName(profile.ID, strings.Repeat("x", 51)); !errors.Is(err, domain.ErrNameTooLong) {
		t.Errorf("Expected ErrNameTooLong, got %v", err)
	}

	updated, err := svc.UpdateName(profile.ID, "  Joanna  ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Name != "Joanna" {
		t.Errorf("Expected trimmed name Joanna, got %q", updated.Name)
	}
}

func TestGetProfileByUserID_NotFound(t *testing.T) {
	svc := NewProfileService(testutil.NewMockProfileRepository())

	_, err := svc.GetProfileByUserID("auth0|missing")
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("Expected ErrProfileNotFound, got %v", err)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	svc := NewProfileService(testutil.NewMockProfileRepository())

	_, err := svc.GetProfile(uuid.New())
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("Expected ErrProfileNotFound, got %v", err)
	}
}
