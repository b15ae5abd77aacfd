package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// ValidTransactionType reports whether t is one of the known types
func ValidTransactionType(t TransactionType) bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense || t == TransactionTypeTransfer
}

type RecurringType string

const (
	RecurringMonthly RecurringType = "monthly"
	RecurringWeekly  RecurringType = "weekly"
	RecurringYearly  RecurringType = "yearly"
)

// ValidRecurringType reports whether r is one of the known recurrence kinds
func ValidRecurringType(r RecurringType) bool {
	return r == RecurringMonthly || r == RecurringWeekly || r == RecurringYearly
}

// Transaction is a single financial movement owned by a profile. Period is
// a denormalized billing-cycle label derived from Date and the profile's
// period start day; FromCategory/ToCategory are populated iff the type is
// transfer.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	ProfileID     uuid.UUID       `json:"profileId"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Type          TransactionType `json:"type"`
	Date          time.Time       `json:"date"`
	Period        string          `json:"period"`
	Archived      bool            `json:"archived"`
	IsRecurring   bool            `json:"isRecurring"`
	RecurringType *RecurringType  `json:"recurringType,omitempty"`
	FromCategory  *string         `json:"fromCategory,omitempty"`
	ToCategory    *string         `json:"toCategory,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// TransactionFilters narrows transaction listings
type TransactionFilters struct {
	IncludeArchived bool
	ArchivedOnly    bool
	StartDate       *time.Time
	EndDate         *time.Time
	Category        *string
	Type            *TransactionType
	Period          *string
}

// UpdateTransactionData carries the fully merged row written on update.
// The service resolves partial input against the stored snapshot before
// calling the repository.
type UpdateTransactionData struct {
	Amount        decimal.Decimal
	Description   string
	Category      string
	Type          TransactionType
	Date          time.Time
	Period        string
	IsRecurring   bool
	RecurringType *RecurringType
	FromCategory  *string
	ToCategory    *string
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	CreateBatch(transactions []*Transaction) error
	GetByID(profileID, id uuid.UUID) (*Transaction, error)
	GetByProfile(profileID uuid.UUID, filters *TransactionFilters) ([]*Transaction, error)
	Update(profileID, id uuid.UUID, data *UpdateTransactionData) (*Transaction, error)
	Delete(profileID, id uuid.UUID) error
	// SumExpenses totals non-archived expense amounts for a category/period pair
	SumExpenses(profileID uuid.UUID, category, period string) (decimal.Decimal, error)
	// ArchiveOlderThan marks non-archived transactions dated before cutoff as
	// archived and returns the affected rows
	ArchiveOlderThan(profileID uuid.UUID, cutoff time.Time) ([]*Transaction, error)
	// UpdatePeriod rewrites the stored period bucket for a single row
	UpdatePeriod(profileID, id uuid.UUID, period string) error
}
