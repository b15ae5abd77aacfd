package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Savings accumulates transfers into a savings-classified category
type Savings struct {
	ID          uuid.UUID       `json:"id"`
	ProfileID   uuid.UUID       `json:"profileId"`
	Category    string          `json:"category"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type SavingsRepository interface {
	Create(savings *Savings) (*Savings, error)
	GetByID(profileID, id uuid.UUID) (*Savings, error)
	GetByCategory(profileID uuid.UUID, category string) (*Savings, error)
	GetByProfile(profileID uuid.UUID) ([]*Savings, error)
	SetTotal(profileID, id uuid.UUID, total decimal.Decimal) error
	Delete(profileID, id uuid.UUID) error
}
