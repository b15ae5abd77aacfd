package handler

import (
	"net/http"

	"github.com/centsible/centsible-backend/internal/middleware"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	profileService *service.ProfileService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(profileService *service.ProfileService) *AuthHandler {
	return &AuthHandler{profileService: profileService}
}

// ProfileResponse represents a profile in API responses
type ProfileResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// Sync provisions a profile for the authenticated subject. The frontend
// calls this after sign-in; repeated calls are harmless because the
// provisioning is an upsert.
// POST /auth/sync
func (h *AuthHandler) Sync(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		log.Error().Msg("No user ID in context, middleware may not be configured")
		return NewUnauthorizedError(c, "Authentication required")
	}

	customClaims := middleware.GetCustomClaims(c)
	var email, name string
	if customClaims != nil {
		email = customClaims.Email
		name = customClaims.Name
	}

	if email == "" {
		log.Error().Str("user_id", userID).Msg("No email in JWT claims")
		return NewValidationError(c, "Email is required for authentication", []ValidationError{
			{Field: "email", Message: "Email claim is missing from token"},
		})
	}

	profile, err := h.profileService.EnsureProfile(userID, email, name)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to provision profile")
		return NewInternalError(c, "Failed to provision profile")
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		ID:        profile.ID.String(),
		Email:     profile.Email,
		Name:      profile.Name,
		AvatarURL: profile.AvatarURL,
	})
}

// Me returns the current authenticated profile
// GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	profile, err := h.profileService.GetProfileByUserID(userID)
	if err != nil {
		log.Debug().Err(err).Str("user_id", userID).Msg("Profile lookup failed")
		return NewNotFoundError(c, "Profile not found")
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		ID:        profile.ID.String(),
		Email:     profile.Email,
		Name:      profile.Name,
		AvatarURL: profile.AvatarURL,
	})
}
