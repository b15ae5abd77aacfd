package service

import (
	"errors"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AggregateService keeps budget and savings aggregates consistent with the
// transaction ledger. Expense postings adjust budget spent totals; transfer
// postings move money into the destination category's aggregate.
//
// Aggregates for categories without a matching budget or savings row are
// skipped silently: a transaction may legitimately reference a category the
// user never budgeted for.
type AggregateService struct {
	transactionRepo domain.TransactionRepository
	budgetRepo      domain.BudgetRepository
	savingsRepo     domain.SavingsRepository
	categoryRepo    domain.CategoryRepository
}

// NewAggregateService creates a new AggregateService
func NewAggregateService(
	transactionRepo domain.TransactionRepository,
	budgetRepo domain.BudgetRepository,
	savingsRepo domain.SavingsRepository,
	categoryRepo domain.CategoryRepository,
) *AggregateService {
	return &AggregateService{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		savingsRepo:     savingsRepo,
		categoryRepo:    categoryRepo,
	}
}

// ApplyExpense adds an expense amount to the budget spent total for the
// category and period. Missing budgets are skipped without error.
func (s *AggregateService) ApplyExpense(profileID uuid.UUID, category, period string, amount decimal.Decimal) error {
	budget, err := s.budgetRepo.GetByKey(profileID, category, period)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return nil
		}
		return err
	}

	return s.budgetRepo.SetSpent(profileID, budget.ID, budget.Spent.Add(amount))
}

// RecalculateBudgetSpent recomputes the budget spent total for a category and
// period from the non-archived expense transactions. Safe to call repeatedly;
// the result depends only on the ledger state.
func (s *AggregateService) RecalculateBudgetSpent(profileID uuid.UUID, category, period string) error {
	budget, err := s.budgetRepo.GetByKey(profileID, category, period)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return nil
		}
		return err
	}

	spent, err := s.transactionRepo.SumExpenses(profileID, category, period)
	if err != nil {
		return err
	}

	return s.budgetRepo.SetSpent(profileID, budget.ID, spent)
}

// ApplyTransfer applies a transfer's effect on its destination aggregate.
// The destination category's classification decides which aggregate moves:
// budget categories gain allocation for the transfer's period, savings
// categories gain total. Unclassified or missing categories are skipped.
func (s *AggregateService) ApplyTransfer(profileID uuid.UUID, toCategory, period string, amount decimal.Decimal) error {
	return s.adjustTransferDestination(profileID, toCategory, period, amount)
}

// ReverseTransfer undoes a previously applied transfer by subtracting the
// amount from the destination aggregate, clamping the result at zero.
func (s *AggregateService) ReverseTransfer(profileID uuid.UUID, toCategory, period string, amount decimal.Decimal) error {
	return s.adjustTransferDestination(profileID, toCategory, period, amount.Neg())
}

func (s *AggregateService) adjustTransferDestination(profileID uuid.UUID, toCategory, period string, delta decimal.Decimal) error {
	category, err := s.categoryRepo.GetByName(profileID, toCategory)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			log.Debug().
				Str("profile_id", profileID.String()).
				Str("category", toCategory).
				Msg("No category row for transfer destination, skipping")
			return nil
		}
		return err
	}

	switch category.Type {
	case domain.CategoryTypeBudget:
		return s.adjustBudgetAllocated(profileID, toCategory, period, delta)
	case domain.CategoryTypeSavings:
		return s.adjustSavings(profileID, toCategory, delta)
	}
	return nil
}

// adjustBudgetAllocated adds delta to the budget allocation for a category
// and period, clamping the result at zero. Missing budgets are skipped.
func (s *AggregateService) adjustBudgetAllocated(profileID uuid.UUID, category, period string, delta decimal.Decimal) error {
	budget, err := s.budgetRepo.GetByKey(profileID, category, period)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return nil
		}
		return err
	}

	allocated := budget.Allocated.Add(delta)
	if allocated.IsNegative() {
		allocated = decimal.Zero
	}

	return s.budgetRepo.SetAllocated(profileID, budget.ID, allocated)
}

// adjustSavings adds delta to the savings total for a category, clamping the
// result at zero. Missing savings rows are skipped without error.
func (s *AggregateService) adjustSavings(profileID uuid.UUID, category string, delta decimal.Decimal) error {
	savings, err := s.savingsRepo.GetByCategory(profileID, category)
	if err != nil {
		if errors.Is(err, domain.ErrSavingsNotFound) {
			log.Debug().
				Str("profile_id", profileID.String()).
				Str("category", category).
				Msg("No savings row for transfer destination, skipping")
			return nil
		}
		return err
	}

	total := savings.TotalAmount.Add(delta)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return s.savingsRepo.SetTotal(profileID, savings.ID, total)
}
