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

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetRequest represents the create budget request body
type CreateBudgetRequest struct {
	Category  string `json:"category"`
	Period    string `json:"period"`
	Allocated string `json:"allocated"`
}

// UpdateBudgetRequest represents the update budget request body
type UpdateBudgetRequest struct {
	Allocated string `json:"allocated"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Period    string `json:"period"`
	Allocated string `json:"allocated"`
	Spent     string `json:"spent"`
	Remaining string `json:"remaining"`
}

// toBudgetResponse converts a domain budget to its API shape
func toBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:        b.ID.String(),
		Category:  b.Category,
		Period:    b.Period,
		Allocated: b.Allocated.StringFixed(2),
		Spent:     b.Spent.StringFixed(2),
		Remaining: b.Allocated.Sub(b.Spent).StringFixed(2),
	}
}

// CreateBudget handles POST /budgets
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	var req CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	allocated, err := decimal.NewFromString(req.Allocated)
	if err != nil {
		return NewValidationError(c, "Invalid allocated amount", []ValidationError{
			{Field: "allocated", Message: "Must be a valid decimal number"},
		})
	}

	budget, err := h.budgetService.CreateBudget(profileID, service.CreateBudgetInput{
		Category:  req.Category,
		Period:    req.Period,
		Allocated: allocated,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNameRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "category", Message: "Category is required"},
			})
		case errors.Is(err, domain.ErrInvalidPeriod):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "period", Message: "Period must be in YYYY-MM format"},
			})
		case errors.Is(err, domain.ErrInvalidAmount):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "allocated", Message: "Allocated amount must not be negative"},
			})
		case errors.Is(err, domain.ErrBudgetExists):
			return NewConflictError(c, "Budget already exists for this category and period")
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to create budget")
		return NewInternalError(c, "Failed to create budget")
	}

	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// GetBudgets handles GET /budgets with an optional period filter
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	budgets, err := h.budgetService.GetBudgets(profileID, c.QueryParam("period"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPeriod) {
			return NewValidationError(c, "Invalid period (use YYYY-MM)", nil)
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to get budgets")
		return NewInternalError(c, "Failed to get budgets")
	}

	responses := make([]BudgetResponse, 0, len(budgets))
	for _, b := range budgets {
		responses = append(responses, toBudgetResponse(b))
	}
	return c.JSON(http.StatusOK, responses)
}

// UpdateBudget handles PUT /budgets/:id
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	var req UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	allocated, err := decimal.NewFromString(req.Allocated)
	if err != nil {
		return NewValidationError(c, "Invalid allocated amount", []ValidationError{
			{Field: "allocated", Message: "Must be a valid decimal number"},
		})
	}

	budget, err := h.budgetService.UpdateAllocation(profileID, id, allocated)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "allocated", Message: "Allocated amount must not be negative"},
			})
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Str("budget_id", id.String()).Msg("Failed to update budget")
		return NewInternalError(c, "Failed to update budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// DeleteBudget handles DELETE /budgets/:id
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	if err := h.budgetService.DeleteBudget(profileID, id); err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Str("budget_id", id.String()).Msg("Failed to delete budget")
		return NewInternalError(c, "Failed to delete budget")
	}

	return c.NoContent(http.StatusNoContent)
}
