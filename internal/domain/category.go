package domain

import (
	"time"

	"github.com/google/uuid"
)

// CategoryType decides which aggregate a transfer's destination affects
type CategoryType string

const (
	CategoryTypeBudget  CategoryType = "budget"
	CategoryTypeSavings CategoryType = "savings"
	CategoryTypeOther   CategoryType = "other"
)

// ValidCategoryType reports whether t is one of the known classifications
func ValidCategoryType(t CategoryType) bool {
	return t == CategoryTypeBudget || t == CategoryTypeSavings || t == CategoryTypeOther
}

type Category struct {
	ID        uuid.UUID    `json:"id"`
	ProfileID uuid.UUID    `json:"profileId"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	CreatedAt time.Time    `json:"createdAt"`
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByName(profileID uuid.UUID, name string) (*Category, error)
	GetByProfile(profileID uuid.UUID) ([]*Category, error)
	Update(profileID, id uuid.UUID, name string, categoryType CategoryType) (*Category, error)
	Delete(profileID, id uuid.UUID) error
}
