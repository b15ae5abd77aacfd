package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget tracks an allocation and the spend against it for one category in
// one period. Spent must equal the sum of non-archived expense transactions
// for the same profile/category/period; budgets are never created
// implicitly by transaction activity.
type Budget struct {
	ID        uuid.UUID       `json:"id"`
	ProfileID uuid.UUID       `json:"profileId"`
	Category  string          `json:"category"`
	Period    string          `json:"period"`
	Allocated decimal.Decimal `json:"allocated"`
	Spent     decimal.Decimal `json:"spent"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type BudgetRepository interface {
	Create(budget *Budget) (*Budget, error)
	GetByID(profileID, id uuid.UUID) (*Budget, error)
	// GetByKey looks up the unique budget for (profile, category, period)
	GetByKey(profileID uuid.UUID, category, period string) (*Budget, error)
	// GetByProfile lists budgets, optionally restricted to one period
	GetByProfile(profileID uuid.UUID, period string) ([]*Budget, error)
	SetSpent(profileID, id uuid.UUID, spent decimal.Decimal) error
	SetAllocated(profileID, id uuid.UUID, allocated decimal.Decimal) error
	Delete(profileID, id uuid.UUID) error
}
