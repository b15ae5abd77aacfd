package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/util"
	"github.com/centsible/centsible-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// maxTransactionAmount is the largest amount a single transaction may carry
var maxTransactionAmount = decimal.RequireFromString("9999999.99")

// TransactionService handles transaction posting and the aggregate updates
// that follow from it
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	settingsRepo    domain.SettingsRepository
	aggregates      *AggregateService
	publisher       websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactionRepo domain.TransactionRepository,
	settingsRepo domain.SettingsRepository,
	aggregates *AggregateService,
	publisher websocket.EventPublisher,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		settingsRepo:    settingsRepo,
		aggregates:      aggregates,
		publisher:       publisher,
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	Amount        decimal.Decimal
	Description   string
	Category      string
	Type          domain.TransactionType
	Date          time.Time
	IsRecurring   bool
	RecurringType *domain.RecurringType
	FromCategory  *string
	ToCategory    *string
}

// CreateTransaction validates the input, buckets the transaction into its
// budget period, persists it, and applies the aggregate effect for expenses
// and transfers. Income transactions carry no aggregate effect.
func (s *TransactionService) CreateTransaction(profileID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	amount, err := validateAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	if err := validateDescription(input.Description); err != nil {
		return nil, err
	}
	if err := validateTypeFields(input.Type, input.IsRecurring, input.RecurringType, input.FromCategory, input.ToCategory); err != nil {
		return nil, err
	}

	period := util.CalculatePeriod(input.Date, s.periodStartDay(profileID))
	fromCategory, toCategory := transferCategories(input.Type, input.FromCategory, input.ToCategory)

	transaction := &domain.Transaction{
		ProfileID:     profileID,
		Amount:        amount,
		Description:   strings.TrimSpace(input.Description),
		Category:      input.Category,
		Type:          input.Type,
		Date:          input.Date,
		Period:        period,
		IsRecurring:   input.IsRecurring,
		RecurringType: input.RecurringType,
		FromCategory:  fromCategory,
		ToCategory:    toCategory,
	}

	created, err := s.transactionRepo.Create(transaction)
	if err != nil {
		return nil, err
	}

	switch created.Type {
	case domain.TransactionTypeExpense:
		if err := s.aggregates.ApplyExpense(profileID, created.Category, created.Period, created.Amount); err != nil {
			return nil, err
		}
	case domain.TransactionTypeTransfer:
		if err := s.aggregates.ApplyTransfer(profileID, *created.ToCategory, created.Period, created.Amount); err != nil {
			return nil, err
		}
	}

	s.publisher.Publish(profileID, websocket.TransactionCreated(created))
	return created, nil
}

// GetTransaction retrieves a single transaction owned by the profile
func (s *TransactionService) GetTransaction(profileID, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(profileID, id)
}

// GetTransactions retrieves transactions for a profile with optional filters
func (s *TransactionService) GetTransactions(profileID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	return s.transactionRepo.GetByProfile(profileID, filters)
}

// GetArchivedTransactions retrieves only the archived transactions for a profile
func (s *TransactionService) GetArchivedTransactions(profileID uuid.UUID) ([]*domain.Transaction, error) {
	return s.transactionRepo.GetByProfile(profileID, &domain.TransactionFilters{ArchivedOnly: true})
}

// UpdateTransaction replaces a transaction's fields and restores aggregate
// consistency. Budget totals for both the old and new category/period pair
// are fully recalculated from the ledger rather than adjusted incrementally,
// which keeps the totals correct even when category, period, and amount all
// change at once. Transfer effects are reversed and reapplied.
func (s *TransactionService) UpdateTransaction(profileID, id uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	amount, err := validateAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	if err := validateDescription(input.Description); err != nil {
		return nil, err
	}
	if err := validateTypeFields(input.Type, input.IsRecurring, input.RecurringType, input.FromCategory, input.ToCategory); err != nil {
		return nil, err
	}

	old, err := s.transactionRepo.GetByID(profileID, id)
	if err != nil {
		return nil, err
	}

	period := util.CalculatePeriod(input.Date, s.periodStartDay(profileID))

	// Reverse the old transfer before the row changes so the reversal sees
	// the amount and destination that were originally applied
	if old.Type == domain.TransactionTypeTransfer && old.ToCategory != nil {
		if err := s.aggregates.ReverseTransfer(profileID, *old.ToCategory, old.Period, old.Amount); err != nil {
			return nil, err
		}
	}

	fromCategory, toCategory := transferCategories(input.Type, input.FromCategory, input.ToCategory)

	updated, err := s.transactionRepo.Update(profileID, id, &domain.UpdateTransactionData{
		Amount:        amount,
		Description:   strings.TrimSpace(input.Description),
		Category:      input.Category,
		Type:          input.Type,
		Date:          input.Date,
		Period:        period,
		IsRecurring:   input.IsRecurring,
		RecurringType: input.RecurringType,
		FromCategory:  fromCategory,
		ToCategory:    toCategory,
	})
	if err != nil {
		return nil, err
	}

	if err := s.recalculatePairs(profileID, old, updated); err != nil {
		return nil, err
	}

	if updated.Type == domain.TransactionTypeTransfer {
		if err := s.aggregates.ApplyTransfer(profileID, *updated.ToCategory, updated.Period, updated.Amount); err != nil {
			return nil, err
		}
	}

	s.publisher.Publish(profileID, websocket.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction removes a transaction and restores aggregate consistency.
// Expense budgets are recalculated from the remaining ledger; transfer
// effects are reversed.
func (s *TransactionService) DeleteTransaction(profileID, id uuid.UUID) error {
	old, err := s.transactionRepo.GetByID(profileID, id)
	if err != nil {
		return err
	}

	if err := s.transactionRepo.Delete(profileID, id); err != nil {
		return err
	}

	switch old.Type {
	case domain.TransactionTypeExpense:
		if err := s.aggregates.RecalculateBudgetSpent(profileID, old.Category, old.Period); err != nil {
			return err
		}
	case domain.TransactionTypeTransfer:
		if old.ToCategory != nil {
			if err := s.aggregates.ReverseTransfer(profileID, *old.ToCategory, old.Period, old.Amount); err != nil {
				return err
			}
		}
	}

	s.publisher.Publish(profileID, websocket.TransactionDeleted(old))
	return nil
}

// BulkResult summarizes a bulk insert: how many rows were inserted, how many
// failed, and the failure per batch keyed by zero-based batch index
type BulkResult struct {
	Success int            `json:"success"`
	Failed  int            `json:"failed"`
	Errors  map[int]string `json:"errors,omitempty"`
}

// AddBulkTransactions inserts transactions in batches. A failing batch is
// recorded and skipped; the remaining batches still run, so one bad row
// costs at most its own batch. Budget totals for every category/period
// touched by inserted expenses are recalculated afterwards, and transfer
// effects are applied per inserted row.
func (s *TransactionService) AddBulkTransactions(profileID uuid.UUID, inputs []CreateTransactionInput) (*BulkResult, error) {
	result := &BulkResult{Errors: make(map[int]string)}
	if len(inputs) == 0 {
		return result, nil
	}

	periodStartDay := s.periodStartDay(profileID)

	transactions := make([]*domain.Transaction, 0, len(inputs))
	for i, input := range inputs {
		amount, err := validateAmount(input.Amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		if err := validateDescription(input.Description); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		if err := validateTypeFields(input.Type, input.IsRecurring, input.RecurringType, input.FromCategory, input.ToCategory); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}

		fromCategory, toCategory := transferCategories(input.Type, input.FromCategory, input.ToCategory)
		transactions = append(transactions, &domain.Transaction{
			ProfileID:     profileID,
			Amount:        amount,
			Description:   strings.TrimSpace(input.Description),
			Category:      input.Category,
			Type:          input.Type,
			Date:          input.Date,
			Period:        util.CalculatePeriod(input.Date, periodStartDay),
			IsRecurring:   input.IsRecurring,
			RecurringType: input.RecurringType,
			FromCategory:  fromCategory,
			ToCategory:    toCategory,
		})
	}

	inserted := make([]*domain.Transaction, 0, len(transactions))
	for batchIndex := 0; batchIndex*domain.BulkInsertBatchSize < len(transactions); batchIndex++ {
		start := batchIndex * domain.BulkInsertBatchSize
		end := start + domain.BulkInsertBatchSize
		if end > len(transactions) {
			end = len(transactions)
		}
		batch := transactions[start:end]

		if err := s.transactionRepo.CreateBatch(batch); err != nil {
			log.Warn().
				Err(err).
				Str("profile_id", profileID.String()).
				Int("batch", batchIndex).
				Msg("Bulk insert batch failed")
			result.Failed += len(batch)
			result.Errors[batchIndex] = err.Error()
			continue
		}

		result.Success += len(batch)
		inserted = append(inserted, batch...)
	}

	if err := s.applyBulkAggregates(profileID, inserted); err != nil {
		return nil, err
	}

	if len(inserted) > 0 {
		s.publisher.Publish(profileID, websocket.TransactionCreated(inserted))
	}
	return result, nil
}

// applyBulkAggregates restores aggregate consistency after a bulk insert.
// Expense budgets are recalculated once per touched category/period pair;
// transfers are applied row by row.
func (s *TransactionService) applyBulkAggregates(profileID uuid.UUID, inserted []*domain.Transaction) error {
	touched := make(map[budgetKey]struct{})

	for _, t := range inserted {
		switch t.Type {
		case domain.TransactionTypeExpense:
			touched[budgetKey{t.Category, t.Period}] = struct{}{}
		case domain.TransactionTypeTransfer:
			if t.ToCategory != nil {
				if err := s.aggregates.ApplyTransfer(profileID, *t.ToCategory, t.Period, t.Amount); err != nil {
					return err
				}
			}
		}
	}

	for key := range touched {
		if err := s.aggregates.RecalculateBudgetSpent(profileID, key.category, key.period); err != nil {
			return err
		}
	}
	return nil
}

// ArchiveOldTransactions marks transactions dated before the cutoff (one
// year ago) as archived. Archived expenses no longer count toward budget
// spent totals, so the touched budgets are recalculated unless the caller
// disables it.
func (s *TransactionService) ArchiveOldTransactions(profileID uuid.UUID, recalculateBudgets bool) (int, error) {
	cutoff := time.Now().UTC().AddDate(-1, 0, 0)

	archived, err := s.transactionRepo.ArchiveOlderThan(profileID, cutoff)
	if err != nil {
		return 0, err
	}
	if len(archived) == 0 {
		return 0, nil
	}

	if recalculateBudgets {
		touched := make(map[budgetKey]struct{})
		for _, t := range archived {
			if t.Type == domain.TransactionTypeExpense {
				touched[budgetKey{t.Category, t.Period}] = struct{}{}
			}
		}
		for key := range touched {
			if err := s.aggregates.RecalculateBudgetSpent(profileID, key.category, key.period); err != nil {
				return 0, err
			}
		}
	}

	s.publisher.Publish(profileID, websocket.TransactionsArchived(archived))
	return len(archived), nil
}

// budgetKey identifies a budget aggregate by category and period
type budgetKey struct {
	category string
	period   string
}

// recalculatePairs recalculates budget spent for the category/period pairs an
// update may have touched. Old and new pairs are deduplicated so an update
// that only changes the amount recalculates once.
func (s *TransactionService) recalculatePairs(profileID uuid.UUID, old, updated *domain.Transaction) error {
	touched := make(map[budgetKey]struct{})

	if old.Type == domain.TransactionTypeExpense {
		touched[budgetKey{old.Category, old.Period}] = struct{}{}
	}
	if updated.Type == domain.TransactionTypeExpense {
		touched[budgetKey{updated.Category, updated.Period}] = struct{}{}
	}

	for key := range touched {
		if err := s.aggregates.RecalculateBudgetSpent(profileID, key.category, key.period); err != nil {
			return err
		}
	}
	return nil
}

// periodStartDay resolves the profile's configured period start day,
// defaulting when no settings row exists yet
func (s *TransactionService) periodStartDay(profileID uuid.UUID) int {
	settings, err := s.settingsRepo.GetByProfile(profileID)
	if err != nil {
		if !errors.Is(err, domain.ErrSettingsNotFound) {
			log.Warn().
				Err(err).
				Str("profile_id", profileID.String()).
				Msg("Failed to load settings, using default period start day")
		}
		return domain.DefaultPeriodStartDay
	}
	return settings.PeriodStartDay
}

// validateAmount rounds the amount to cents and checks it is positive and
// within range
func validateAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	rounded := amount.Round(2)
	if !rounded.IsPositive() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	if rounded.GreaterThan(maxTransactionAmount) {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	return rounded, nil
}

// validateDescription checks the description length limit
func validateDescription(description string) error {
	if len(strings.TrimSpace(description)) > domain.MaxDescriptionLength {
		return domain.ErrDescriptionTooLong
	}
	return nil
}

// validateTypeFields checks the type-dependent fields: recurring transactions
// need a valid cadence, transfers need both a source and destination category
func validateTypeFields(
	transactionType domain.TransactionType,
	isRecurring bool,
	recurringType *domain.RecurringType,
	fromCategory, toCategory *string,
) error {
	if !domain.ValidTransactionType(transactionType) {
		return domain.ErrInvalidTransactionType
	}
	if isRecurring {
		if recurringType == nil || !domain.ValidRecurringType(*recurringType) {
			return domain.ErrInvalidRecurringType
		}
	}
	if transactionType == domain.TransactionTypeTransfer {
		if fromCategory == nil || toCategory == nil {
			return domain.ErrTransferCategories
		}
	}
	return nil
}

// transferCategories clears the transfer categories for non-transfer rows so
// they are populated only when the type is transfer
func transferCategories(transactionType domain.TransactionType, fromCategory, toCategory *string) (*string, *string) {
	if transactionType != domain.TransactionTypeTransfer {
		return nil, nil
	}
	return fromCategory, toCategory
}
