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

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest represents the create/update category request body
type CategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// toCategoryResponse converts a domain category to its API shape
func toCategoryResponse(cat *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:   cat.ID.String(),
		Name: cat.Name,
		Type: string(cat.Type),
	}
}

// categoryValidationResponse maps domain validation errors to responses.
// Returns nil when the error is not a validation error.
func categoryValidationResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 50 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidCategoryType):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be one of: budget, savings, other"},
		})
	}
	return nil
}

// CreateCategory handles POST /categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.CreateCategory(profileID, req.Name, domain.CategoryType(req.Type))
	if err != nil {
		if resp := categoryValidationResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to create category")
		return NewInternalError(c, "Failed to create category")
	}

	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// GetCategories handles GET /categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	categories, err := h.categoryService.GetCategories(profileID)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to get categories")
		return NewInternalError(c, "Failed to get categories")
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		responses = append(responses, toCategoryResponse(cat))
	}
	return c.JSON(http.StatusOK, responses)
}

// UpdateCategory handles PUT /categories/:id
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.UpdateCategory(profileID, id, req.Name, domain.CategoryType(req.Type))
	if err != nil {
		if resp := categoryValidationResponse(c, err); resp != nil {
			return resp
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Str("category_id", id.String()).Msg("Failed to update category")
		return NewInternalError(c, "Failed to update category")
	}

	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// DeleteCategory handles DELETE /categories/:id
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	if err := h.categoryService.DeleteCategory(profileID, id); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Str("category_id", id.String()).Msg("Failed to delete category")
		return NewInternalError(c, "Failed to delete category")
	}

	return c.NoContent(http.StatusNoContent)
}
