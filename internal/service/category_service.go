package service

import (
	"strings"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/google/uuid"
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(profileID uuid.UUID, name string, categoryType domain.CategoryType) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !domain.ValidCategoryType(categoryType) {
		return nil, domain.ErrInvalidCategoryType
	}

	return s.categoryRepo.Create(&domain.Category{
		ProfileID: profileID,
		Name:      name,
		Type:      categoryType,
	})
}

// GetCategories retrieves all categories for a profile
func (s *CategoryService) GetCategories(profileID uuid.UUID) ([]*domain.Category, error) {
	return s.categoryRepo.GetByProfile(profileID)
}

// UpdateCategory renames or reclassifies a category
func (s *CategoryService) UpdateCategory(profileID, id uuid.UUID, name string, categoryType domain.CategoryType) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !domain.ValidCategoryType(categoryType) {
		return nil, domain.ErrInvalidCategoryType
	}

	return s.categoryRepo.Update(profileID, id, name, categoryType)
}

// DeleteCategory removes a category. Transactions referencing the name keep
// it; category rows only drive pickers and grouping.
func (s *CategoryService) DeleteCategory(profileID, id uuid.UUID) error {
	return s.categoryRepo.Delete(profileID, id)
}
