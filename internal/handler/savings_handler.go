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
	"github.com/shopspring/decimal"
)

// SavingsHandler handles savings-related HTTP requests
type SavingsHandler struct {
	savingsService *service.SavingsService
}

// NewSavingsHandler creates a new SavingsHandler
func NewSavingsHandler(savingsService *service.SavingsService) *SavingsHandler {
	return &SavingsHandler{savingsService: savingsService}
}

// CreateSavingsRequest represents the create savings request body
type CreateSavingsRequest struct {
	Category     string `json:"category"`
	InitialTotal string `json:"initialTotal,omitempty"`
}

// UpdateSavingsRequest represents the update savings request body
type UpdateSavingsRequest struct {
	TotalAmount string `json:"totalAmount"`
}

// SavingsResponse represents a savings pot in API responses
type SavingsResponse struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	TotalAmount string `json:"totalAmount"`
}

// toSavingsResponse converts a domain savings pot to its API shape
func toSavingsResponse(s *domain.Savings) SavingsResponse {
	return SavingsResponse{
		ID:          s.ID.String(),
		Category:    s.Category,
		TotalAmount: s.TotalAmount.StringFixed(2),
	}
}

// CreateSavings handles POST /savings
func (h *SavingsHandler) CreateSavings(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	var req CreateSavingsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	initialTotal := decimal.Zero
	if req.InitialTotal != "" {
		parsed, err := decimal.NewFromString(req.InitialTotal)
		if err != nil {
			return NewValidationError(c, "Invalid initial total", []ValidationError{
				{Field: "initialTotal", Message: "Must be a valid decimal number"},
			})
		}
		initialTotal = parsed
	}

	savings, err := h.savingsService.CreateSavings(profileID, req.Category, initialTotal)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNameRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "category", Message: "Category is required"},
			})
		case errors.Is(err, domain.ErrInvalidAmount):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "initialTotal", Message: "Initial total must not be negative"},
			})
		case errors.Is(err, domain.ErrSavingsExists):
			return NewConflictError(c, "Savings already exists for this category")
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to create savings")
		return NewInternalError(c, "Failed to create savings")
	}

	return c.JSON(http.StatusCreated, toSavingsResponse(savings))
}

// GetSavings handles GET /savings
func (h *SavingsHandler) GetSavings(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	savings, err := h.savingsService.GetSavings(profileID)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to get savings")
		return NewInternalError(c, "Failed to get savings")
	}

	responses := make([]SavingsResponse, 0, len(savings))
	for _, s := range savings {
		responses = append(responses, toSavingsResponse(s))
	}
	return c.JSON(http.StatusOK, responses)
}

// UpdateSavings handles PUT /savings/:id
func (h *SavingsHandler) UpdateSavings(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid savings ID", nil)
	}

	var req UpdateSavingsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	total, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		return NewValidationError(c, "Invalid total amount", []ValidationError{
			{Field: "totalAmount", Message: "Must be a valid decimal number"},
		})
	}

	savings, err := h.savingsService.SetTotal(profileID, id, total)
	if err != nil {
		if errors.Is(err, domain.ErrSavingsNotFound) {
			return NewNotFoundError(c, "Savings not found")
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "totalAmount", Message: "Total amount must not be negative"},
			})
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Str("savings_id", id.String()).Msg("Failed to update savings")
		return NewInternalError(c, "Failed to update savings")
	}

	return c.JSON(http.StatusOK, toSavingsResponse(savings))
}

// DeleteSavings handles DELETE /savings/:id
func (h *SavingsHandler) DeleteSavings(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid savings ID", nil)
	}

	if err := h.savingsService.DeleteSavings(profileID, id); err != nil {
		if errors.Is(err, domain.ErrSavingsNotFound) {
			return NewNotFoundError(c, "Savings not found")
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Str("savings_id", id.String()).Msg("Failed to delete savings")
		return NewInternalError(c, "Failed to delete savings")
	}

	return c.NoContent(http.StatusNoContent)
}
