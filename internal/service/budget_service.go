package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// periodPattern matches the YYYY-MM period key format
var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// BudgetService handles budget-related business logic
type BudgetService struct {
	budgetRepo      domain.BudgetRepository
	transactionRepo domain.TransactionRepository
	publisher       websocket.EventPublisher
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(
	budgetRepo domain.BudgetRepository,
	transactionRepo domain.TransactionRepository,
	publisher websocket.EventPublisher,
) *BudgetService {
	return &BudgetService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
	}
}

// CreateBudgetInput holds the input for creating a budget
type CreateBudgetInput struct {
	Category  string
	Period    string
	Allocated decimal.Decimal
}

// CreateBudget creates a budget for a category and period. The spent total
// is seeded from the existing expense ledger so a budget created mid-period
// starts consistent.
func (s *BudgetService) CreateBudget(profileID uuid.UUID, input CreateBudgetInput) (*domain.Budget, error) {
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrNameRequired
	}
	if !periodPattern.MatchString(input.Period) {
		return nil, domain.ErrInvalidPeriod
	}
	if input.Allocated.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	if _, err := s.budgetRepo.GetByKey(profileID, category, input.Period); err == nil {
		return nil, domain.ErrBudgetExists
	} else if !errors.Is(err, domain.ErrBudgetNotFound) {
		return nil, err
	}

	spent, err := s.transactionRepo.SumExpenses(profileID, category, input.Period)
	if err != nil {
		return nil, err
	}

	budget, err := s.budgetRepo.Create(&domain.Budget{
		ProfileID: profileID,
		Category:  category,
		Period:    input.Period,
		Allocated: input.Allocated.Round(2),
		Spent:     spent,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(profileID, websocket.BudgetUpdated(budget))
	return budget, nil
}

// GetBudgets retrieves budgets for a profile, optionally filtered by period
func (s *BudgetService) GetBudgets(profileID uuid.UUID, period string) ([]*domain.Budget, error) {
	if period != "" && !periodPattern.MatchString(period) {
		return nil, domain.ErrInvalidPeriod
	}
	return s.budgetRepo.GetByProfile(profileID, period)
}

// GetBudget retrieves a single budget by ID
func (s *BudgetService) GetBudget(profileID, id uuid.UUID) (*domain.Budget, error) {
	return s.budgetRepo.GetByID(profileID, id)
}

// UpdateAllocation changes a budget's allocated amount
func (s *BudgetService) UpdateAllocation(profileID, id uuid.UUID, allocated decimal.Decimal) (*domain.Budget, error) {
	if allocated.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	budget, err := s.budgetRepo.GetByID(profileID, id)
	if err != nil {
		return nil, err
	}

	if err := s.budgetRepo.SetAllocated(profileID, budget.ID, allocated.Round(2)); err != nil {
		return nil, err
	}

	updated, err := s.budgetRepo.GetByID(profileID, id)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(profileID, websocket.BudgetUpdated(updated))
	return updated, nil
}

// DeleteBudget removes a budget. Transactions in the category are untouched;
// only the aggregate row disappears.
func (s *BudgetService) DeleteBudget(profileID, id uuid.UUID) error {
	budget, err := s.budgetRepo.GetByID(profileID, id)
	if err != nil {
		return err
	}

	if err := s.budgetRepo.Delete(profileID, id); err != nil {
		return err
	}

	s.publisher.Publish(profileID, websocket.BudgetUpdated(budget))
	return nil
}
