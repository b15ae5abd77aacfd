package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/testutil"
	"github.com/google/uuid"
)

func TestCreateCategory_Validation(t *testing.T) {
	svc := NewCategoryService(testutil.NewMockCategoryRepository())
	profileID := uuid.New()

	if _, err := svc.CreateCategory(profileID, "", domain.CategoryTypeBudget); !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
	if _, err := svc.CreateCategory(profileID, strings.Repeat("x", 51), domain.CategoryTypeBudget); !errors.Is(err, domain.ErrNameTooLong) {
		t.Errorf("Expected ErrNameTooLong, got %v", err)
	}
	if _, err := svc.CreateCategory(profileID, "Groceries", domain.CategoryType("misc")); !errors.Is(err, domain.ErrInvalidCategoryType) {
		t.Errorf("Expected ErrInvalidCategoryType, got %v", err)
	}

	category, err := svc.CreateCategory(profileID, "  Groceries  ", domain.CategoryTypeBudget)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if category.Name != "Groceries" {
		t.Errorf("Expected trimmed name Groceries, got %q", category.Name)
	}
}

func TestUpdateCategory_Reclassify(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)
	profileID := uuid.New()

	created, err := svc.CreateCategory(profileID, "Holiday Pot", domain.CategoryTypeBudget)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := svc.UpdateCategory(profileID, created.ID, "Holiday Pot", domain.CategoryTypeSavings)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Type != domain.CategoryTypeSavings {
		t.Errorf("Expected type savings, got %s", updated.Type)
	}
}

func TestDeleteCategory_NotFound(t *testing.T) {
	svc := NewCategoryService(testutil.NewMockCategoryRepository())

	err := svc.DeleteCategory(uuid.New(), uuid.New())
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}
