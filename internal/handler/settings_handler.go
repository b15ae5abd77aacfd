package handler

import (
	"errors"
	"net/http"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/middleware"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// SettingsHandler handles user settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest represents the update settings request body
type UpdateSettingsRequest struct {
	PeriodStartDay int `json:"periodStartDay"`
}

// SettingsResponse represents settings in API responses
type SettingsResponse struct {
	PeriodStartDay int `json:"periodStartDay"`
}

// GetSettings handles GET /settings
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	settings, err := h.settingsService.GetSettings(profileID)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to get settings")
		return NewInternalError(c, "Failed to get settings")
	}

	return c.JSON(http.StatusOK, SettingsResponse{PeriodStartDay: settings.PeriodStartDay})
}

// UpdateSettings handles PUT /settings
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	settings, err := h.settingsService.UpdatePeriodStartDay(profileID, req.PeriodStartDay)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPeriodStartDay) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "periodStartDay", Message: "Must be between 1 and 31"},
			})
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to update settings")
		return NewInternalError(c, "Failed to update settings")
	}

	return c.JSON(http.StatusOK, SettingsResponse{PeriodStartDay: settings.PeriodStartDay})
}

// RecomputePeriodsResponse represents the period recompute response
type RecomputePeriodsResponse struct {
	Moved int `json:"moved"`
}

// RecomputePeriods handles POST /settings/recompute-periods. Existing
// transactions keep their period when the start day changes until the user
// explicitly runs this.
func (h *SettingsHandler) RecomputePeriods(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	moved, err := h.settingsService.RecomputePeriods(profileID)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to recompute periods")
		return NewInternalError(c, "Failed to recompute periods")
	}

	return c.JSON(http.StatusOK, RecomputePeriodsResponse{Moved: moved})
}
