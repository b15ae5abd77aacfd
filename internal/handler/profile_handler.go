package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/middleware"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
	avatarService  *service.AvatarService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService, avatarService *service.AvatarService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		avatarService:  avatarService,
	}
}

// UpdateProfileRequest represents the update profile request body
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	profile, err := h.profileService.GetProfile(profileID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return NewNotFoundError(c, "Profile not found")
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to get profile")
		return NewInternalError(c, "Failed to get profile")
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		ID:        profile.ID.String(),
		Email:     profile.Email,
		Name:      profile.Name,
		AvatarURL: profile.AvatarURL,
	})
}

// UpdateProfile handles PUT /profile
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	profile, err := h.profileService.UpdateName(profileID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNameRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 50 characters or less"},
			})
		case errors.Is(err, domain.ErrProfileNotFound):
			return NewNotFoundError(c, "Profile not found")
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to update profile")
		return NewInternalError(c, "Failed to update profile")
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		ID:        profile.ID.String(),
		Email:     profile.Email,
		Name:      profile.Name,
		AvatarURL: profile.AvatarURL,
	})
}

// AvatarURLResponse represents a presigned avatar URL
type AvatarURLResponse struct {
	URL string `json:"url"`
}

// UploadAvatar handles POST /profile/avatar with a multipart file field
// named "avatar"
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return NewValidationError(c, "Avatar file is required", []ValidationError{
			{Field: "avatar", Message: "Multipart field 'avatar' is missing"},
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return NewValidationError(c, "Could not read uploaded file", nil)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxAvatarSize+1))
	if err != nil {
		return NewValidationError(c, "Could not read uploaded file", nil)
	}

	profile, err := h.avatarService.UploadAvatar(c.Request().Context(), profileID, data, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAvatarTooLarge),
			errors.Is(err, service.ErrAvatarInvalidFormat),
			errors.Is(err, service.ErrAvatarTooSmall),
			errors.Is(err, service.ErrAvatarInvalidData):
			return NewValidationError(c, err.Error(), []ValidationError{
				{Field: "avatar", Message: err.Error()},
			})
		case errors.Is(err, service.ErrAvatarStorageNotConfigured):
			return NewInternalError(c, "Avatar storage is not configured")
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to upload avatar")
		return NewInternalError(c, "Failed to upload avatar")
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		ID:        profile.ID.String(),
		Email:     profile.Email,
		Name:      profile.Name,
		AvatarURL: profile.AvatarURL,
	})
}

// GetAvatarURL handles GET /profile/avatar and returns a presigned URL
func (h *ProfileHandler) GetAvatarURL(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	url, err := h.avatarService.GetAvatarURL(c.Request().Context(), profileID)
	if err != nil {
		if errors.Is(err, service.ErrAvatarStorageNotConfigured) {
			return NewInternalError(c, "Avatar storage is not configured")
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to get avatar URL")
		return NewInternalError(c, "Failed to get avatar URL")
	}
	if url == "" {
		return NewNotFoundError(c, "No avatar set")
	}

	return c.JSON(http.StatusOK, AvatarURLResponse{URL: url})
}

// DeleteAvatar handles DELETE /profile/avatar
func (h *ProfileHandler) DeleteAvatar(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	if err := h.avatarService.DeleteAvatar(c.Request().Context(), profileID); err != nil {
		if errors.Is(err, service.ErrAvatarStorageNotConfigured) {
			return NewInternalError(c, "Avatar storage is not configured")
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to delete avatar")
		return NewInternalError(c, "Failed to delete avatar")
	}

	return c.NoContent(http.StatusNoContent)
}
