package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/testutil"
	"github.com/centsible/centsible-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type transactionTestEnv struct {
	svc             *TransactionService
	transactionRepo *testutil.MockTransactionRepository
	budgetRepo      *testutil.MockBudgetRepository
	savingsRepo     *testutil.MockSavingsRepository
	categoryRepo    *testutil.MockCategoryRepository
	settingsRepo    *testutil.MockSettingsRepository
}

func newTransactionTestEnv() *transactionTestEnv {
	env := &transactionTestEnv{
		transactionRepo: testutil.NewMockTransactionRepository(),
		budgetRepo:      testutil.NewMockBudgetRepository(),
		savingsRepo:     testutil.NewMockSavingsRepository(),
		categoryRepo:    testutil.NewMockCategoryRepository(),
		settingsRepo:    testutil.NewMockSettingsRepository(),
	}
	aggregates := NewAggregateService(env.transactionRepo, env.budgetRepo, env.savingsRepo, env.categoryRepo)
	env.svc = NewTransactionService(env.transactionRepo, env.settingsRepo, aggregates, &websocket.NoOpPublisher{})
	return env
}

func (env *transactionTestEnv) addSavingsCategory(t *testing.T, profileID uuid.UUID, name string, total decimal.Decimal) *domain.Savings {
	t.Helper()
	if _, err := env.categoryRepo.Create(&domain.Category{
		ProfileID: profileID,
		Name:      name,
		Type:      domain.CategoryTypeSavings,
	}); err != nil {
		t.Fatalf("Expected no error creating category, got %v", err)
	}
	return env.savingsRepo.AddSavings(&domain.Savings{
		ProfileID:   profileID,
		Category:    name,
		TotalAmount: total,
	})
}

func date(value string) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return d
}

func strptr(s string) *string {
	return &s
}

func TestCreateTransaction_ComputesPeriod(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()
	env.settingsRepo.Settings[profileID] = &domain.UserSettings{ProfileID: profileID, PeriodStartDay: 25}

	transaction, err := env.svc.CreateTransaction(profileID, CreateTransactionInput{
		Amount:      decimal.NewFromFloat(10),
		Description: "Coffee",
		Category:    "Dining",
		Type:        domain.TransactionTypeExpense,
		Date:        date("2024-01-10"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Day 10 is before start day 25, so it belongs to the previous period
	if transaction.Period != "2023-12" {
		t.Errorf("Expected period 2023-12, got %s", transaction.Period)
	}
}

func TestCreateTransaction_DefaultPeriodStartDay(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	// No settings row exists; day defaults to 1 and the date's own month wins
	transaction, err := env.svc.CreateTransaction(profileID, CreateTransactionInput{
		Amount:      decimal.NewFromFloat(10),
		Description: "Coffee",
		Category:    "Dining",
		Type:        domain.TransactionTypeExpense,
		Date:        date("2024-01-10"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if transaction.Period != "2024-01" {
		t.Errorf("Expected period 2024-01, got %s", transaction.Period)
	}
}

func TestCreateTransaction_RoundsAmount(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	transaction, err := env.svc.CreateTransaction(profileID, CreateTransactionInput{
		Amount:      decimal.RequireFromString("10.005"),
		Description: "Coffee",
		Category:    "Dining",
		Type:        domain.TransactionTypeExpense,
		Date:        date("2024-03-05"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !transaction.Amount.Equal(decimal.RequireFromString("10.01")) {
		t.Errorf("Expected amount 10.01, got %s", transaction.Amount.String())
	}
}

func TestCreateTransaction_RejectsInvalidAmounts(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	cases := []struct {
		name   string
		amount decimal.Decimal
	}{
		{"zero", decimal.Zero},
		{"negative", decimal.NewFromFloat(-5)},
		{"rounds to zero", decimal.RequireFromString("0.004")},
		{"too large", decimal.RequireFromString("10000000.00")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.CreateTransaction(profileID, CreateTransactionInput{
				Amount:      tc.amount,
				Description: "Coffee",
				Category:    "Dining",
				Type:        domain.TransactionTypeExpense,
				Date:        date("2024-03-05"),
			})
			if !errors.Is(err, domain.ErrInvalidAmount) {
				t.Errorf("Expected ErrInvalidAmount, got %v", err)
			}
		})
	}
}

func TestCreateTransaction_AmountBounds(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	for _, amount := range []string{"0.01", "9999999.99"} {
		_, err := env.svc.CreateTransaction(profileID, CreateTransactionInput{
			Amount:      decimal.RequireFromString(amount),
			Description: "Boundary",
			Category:    "Misc",
			Type:        domain.TransactionTypeExpense,
			Date:        date("2024-03-05"),
		})
		if err != nil {
			t.Errorf("Expected amount %s to be accepted, got %v", amount, err)
		}
	}
}

func TestCreateTransaction_DescriptionLength(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	_, err := env.svc.CreateTransaction(profileID, CreateTransactionInput{
		Amount:      decimal.NewFromFloat(10),
		Description: strings.Repeat("x", 51),
		Category:    "Dining",
		Type:        domain.TransactionTypeExpense,
		Date:        date("2024-03-05"),
	})
	if !errors.Is(err, domain.ErrDescriptionTooLong) {
		t.Errorf("Expected ErrDescriptionTooLong, got %v", err)
	}

	// Exactly 50 characters is fine
	_, err = env.svc.CreateTransaction(profileID, CreateTransactionInput{
		Amount:      decimal.NewFromFloat(10),
		Description: strings.Repeat("x", 50),
		Category:    "Dining",
		Type:        domain.TransactionTypeExpense,
		Date:        date("2024-03-05"),
	})
	if err != nil {
		t.Errorf("Expected 50-character description to be accepted, got %v", err)
	}
}

func TestCreateTransaction_RejectsInvalidType(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	_, err := env.svc.CreateTransaction(profileID, CreateTransactionInput{
		Amount:      decimal.NewFromFloat(10),
		Description: "Coffee",
		Category:    "Dining",
		Type:        domain.TransactionType("refund"),
		Date:        date("2024-03-05"),
	})
	if !errors.Is(err, domain.ErrInvalidTransactionType) {
		t.Errorf("Expected ErrInvalidTransactionType, got %v", err)
	}
}

func TestCreateTransaction_RecurringNeedsCadence(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	_, err := env.svc.CreateTransaction(profileID, CreateTransactionInput{
		Amount:      decimal.NewFromFloat(10),
		Description: "Gym",
		Category:    "Health",
		Type:        domain.TransactionTypeExpense,
		Date:        date("2024-03-05"),
		IsRecurring: true,
	})
	if !errors.Is(err, domain.ErrInvalidRecurringType) {
		t.Errorf("Expected ErrInvalidRecurringType, got %v", err)
	}
}

func TestCreateTransaction_TransferNeedsBothCategories(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	cases := []struct {
		name string
		from *string
		to   *string
	}{
		{"neither", nil, nil},
		{"only from", strptr("Checking"), nil},
		{"only to", nil, strptr("Vacation")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.CreateTransaction(profileID, CreateTransactionInput{
				Amount:       decimal.NewFromFloat(10),
				Description:  "Move money",
				Category:     "Transfers",
				Type:         domain.TransactionTypeTransfer,
				Date:         date("2024-03-05"),
				FromCategory: tc.from,
				ToCategory:   tc.to,
			})
			if !errors.Is(err, domain.ErrTransferCategories) {
				t.Errorf("Expected ErrTransferCategories, got %v", err)
			}
		})
	}
}

func TestCreateTransaction_NonTransferClearsCategories(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	transaction, err := env.svc.CreateTransaction(profileID, CreateTransactionInput{
		Amount:       decimal.NewFromFloat(10),
		Description:  "Coffee",
		Category:     "Dining",
		Type:         domain.TransactionTypeExpense,
		Date:         date("2024-03-05"),
		FromCategory: strptr("Checking"),
		ToCategory:   strptr("Vacation"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if transaction.FromCategory != nil || transaction.ToCategory != nil {
		t.Error("Expected transfer categories cleared on a non-transfer row")
	}
}

func TestCreateTransaction_ExpenseIncrementsBudgetSpent(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	budget := env.budgetRepo.AddBudget(&domain.Budget{
		ProfileID: profileID,
		Category:  "Groceries",
		Period:    "2024-03",
		Allocated: decimal.NewFromFloat(300),
		Spent:     decimal.RequireFromString("20.00"),
	})

	_, err := env.svc.CreateTransaction(profileID, CreateTransactionInput{
		Amount:      decimal.RequireFromString("5.50"),
		Description: "Milk",
		Category:    "Groceries",
		Type:        domain.TransactionTypeExpense,
		Date:        date("2024-03-05"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !budget.Spent.Equal(decimal.RequireFromString("25.50")) {
		t.Errorf("Expected spent 25.50, got %s", budget.Spent.String())
	}
}

func TestCreateTransaction_ExpenseWithoutBudgetSucceeds(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	// No budget row for the category; the posting must still succeed
	_, err := env.svc.CreateTransaction(profileID, CreateTransactionInput{
		Amount:      decimal.NewFromFloat(12),
		Description: "Cinema",
		Category:    "Entertainment",
		Type:        domain.TransactionTypeExpense,
		Date:        date("2024-03-05"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestCreateTransaction_IncomeLeavesAggregatesAlone(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	budget := env.budgetRepo.AddBudget(&domain.Budget{
		ProfileID: profileID,
		Category:  "Salary",
		Period:    "2024-03",
		Allocated: decimal.NewFromFloat(100),
		Spent:     decimal.NewFromFloat(10),
	})

	_, err := env.svc.CreateTransaction(profileID, CreateTransactionInput{
		Amount:      decimal.NewFromFloat(2000),
		Description: "Paycheck",
		Category:    "Salary",
		Type:        domain.TransactionTypeIncome,
		Date:        date("2024-03-05"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !budget.Spent.Equal(decimal.NewFromFloat(10)) {
		t.Errorf("Expected spent unchanged at 10, got %s", budget.Spent.String())
	}
}

func TestCreateTransaction_TransferIncreasesSavingsDestination(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	savings := env.addSavingsCategory(t, profileID, "Vacation", decimal.NewFromFloat(100))

	_, err := env.svc.CreateTransaction(profileID, CreateTransactionInput{
		Amount:       decimal.NewFromFloat(150),
		Description:  "Monthly savings",
		Category:     "Vacation",
		Type:         domain.TransactionTypeTransfer,
		Date:         date("2024-03-05"),
		FromCategory: strptr("Checking"),
		ToCategory:   strptr("Vacation"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !savings.TotalAmount.Equal(decimal.NewFromFloat(250)) {
		t.Errorf("Expected savings total 250, got %s", savings.TotalAmount.String())
	}
}

func TestCreateTransaction_TransferIncreasesBudgetAllocation(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	if _, err := env.categoryRepo.Create(&domain.Category{
		ProfileID: profileID,
		Name:      "Groceries",
		Type:      domain.CategoryTypeBudget,
	}); err != nil {
		t.Fatalf("Expected no error creating category, got %v", err)
	}
	budget := env.budgetRepo.AddBudget(&domain.Budget{
		ProfileID: profileID,
		Category:  "Groceries",
		Period:    "2024-03",
		Allocated: decimal.NewFromFloat(200),
		Spent:     decimal.Zero,
	})

	_, err := env.svc.CreateTransaction(profileID, CreateTransactionInput{
		Amount:       decimal.NewFromFloat(50),
		Description:  "Top up groceries",
		Category:     "Groceries",
		Type:         domain.TransactionTypeTransfer,
		Date:         date("2024-03-05"),
		FromCategory: strptr("Checking"),
		ToCategory:   strptr("Groceries"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !budget.Allocated.Equal(decimal.NewFromFloat(250)) {
		t.Errorf("Expected allocation 250, got %s", budget.Allocated.String())
	}
}

func TestUpdateTransaction_CategoryChangeRecalculatesBothBudgets(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	oldBudget := env.budgetRepo.AddBudget(&domain.Budget{
		ProfileID: profileID,
		Category:  "Groceries",
		Period:    "2024-03",
		Allocated: decimal.NewFromFloat(300),
		Spent:     decimal.NewFromFloat(30),
	})
	newBudget := env.budgetRepo.AddBudget(&domain.Budget{
		ProfileID: profileID,
		Category:  "Dining",
		Period:    "2024-03",
		Allocated: decimal.NewFromFloat(200),
		Spent:     decimal.Zero,
	})

	transaction := env.transactionRepo.AddTransaction(&domain.Transaction{
		ProfileID:   profileID,
		Amount:      decimal.NewFromFloat(30),
		Description: "Groceries run",
		Category:    "Groceries",
		Type:        domain.TransactionTypeExpense,
		Date:        date("2024-03-05"),
		Period:      "2024-03",
	})

	_, err := env.svc.UpdateTransaction(profileID, transaction.ID, CreateTransactionInput{
		Amount:      decimal.NewFromFloat(30),
		Description: "Dinner out",
		Category:    "Dining",
		Type:        domain.TransactionTypeExpense,
		Date:        date("2024-03-05"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Old budget loses the expense, new budget gains it
	if !oldBudget.Spent.IsZero() {
		t.Errorf("Expected old budget spent 0, got %s", oldBudget.Spent.String())
	}
	if !newBudget.Spent.Equal(decimal.NewFromFloat(30)) {
		t.Errorf("Expected new budget spent 30, got %s", newBudget.Spent.String())
	}
}

func TestUpdateTransaction_TransferReversedThenReapplied(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	vacation := env.addSavingsCategory(t, profileID, "Vacation", decimal.NewFromFloat(100))
	car := env.addSavingsCategory(t, profileID, "New Car", decimal.NewFromFloat(100))

	transaction := env.transactionRepo.AddTransaction(&domain.Transaction{
		ProfileID:    profileID,
		Amount:       decimal.NewFromFloat(100),
		Description:  "Save for trip",
		Category:     "Transfers",
		Type:         domain.TransactionTypeTransfer,
		Date:         date("2024-03-05"),
		Period:       "2024-03",
		FromCategory: strptr("Checking"),
		ToCategory:   strptr("Vacation"),
	})

	// Redirect the transfer from Vacation to New Car with a new amount
	_, err := env.svc.UpdateTransaction(profileID, transaction.ID, CreateTransactionInput{
		Amount:       decimal.NewFromFloat(60),
		Description:  "Save for car",
		Category:     "Transfers",
		Type:         domain.TransactionTypeTransfer,
		Date:         date("2024-03-05"),
		FromCategory: strptr("Checking"),
		ToCategory:   strptr("New Car"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Vacation gives back the original 100, New Car gains the new 60
	if !vacation.TotalAmount.IsZero() {
		t.Errorf("Expected vacation 0, got %s", vacation.TotalAmount.String())
	}
	if !car.TotalAmount.Equal(decimal.NewFromFloat(160)) {
		t.Errorf("Expected car 160, got %s", car.TotalAmount.String())
	}
}

func TestUpdateTransaction_TypeChangeClearsTransferCategories(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	vacation := env.addSavingsCategory(t, profileID, "Vacation", decimal.NewFromFloat(200))

	transaction := env.transactionRepo.AddTransaction(&domain.Transaction{
		ProfileID:    profileID,
		Amount:       decimal.NewFromFloat(100),
		Description:  "Save for trip",
		Category:     "Transfers",
		Type:         domain.TransactionTypeTransfer,
		Date:         date("2024-03-05"),
		Period:       "2024-03",
		FromCategory: strptr("Checking"),
		ToCategory:   strptr("Vacation"),
	})

	updated, err := env.svc.UpdateTransaction(profileID, transaction.ID, CreateTransactionInput{
		Amount:       decimal.NewFromFloat(100),
		Description:  "Actually groceries",
		Category:     "Groceries",
		Type:         domain.TransactionTypeExpense,
		Date:         date("2024-03-05"),
		FromCategory: strptr("Checking"),
		ToCategory:   strptr("Vacation"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.FromCategory != nil || updated.ToCategory != nil {
		t.Error("Expected transfer categories cleared when type leaves transfer")
	}
	// The old transfer effect is reversed
	if !vacation.TotalAmount.Equal(decimal.NewFromFloat(100)) {
		t.Errorf("Expected vacation 100 after reversal, got %s", vacation.TotalAmount.String())
	}
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	_, err := env.svc.UpdateTransaction(profileID, uuid.New(), CreateTransactionInput{
		Amount:      decimal.NewFromFloat(10),
		Description: "Ghost",
		Category:    "Dining",
		Type:        domain.TransactionTypeExpense,
		Date:        date("2024-03-05"),
	})
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func TestDeleteTransaction_ExpenseRecalculatesBudget(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	budget := env.budgetRepo.AddBudget(&domain.Budget{
		ProfileID: profileID,
		Category:  "Groceries",
		Period:    "2024-03",
		Allocated: decimal.NewFromFloat(300),
		Spent:     decimal.NewFromFloat(45),
	})

	env.transactionRepo.AddTransaction(&domain.Transaction{
		ProfileID: profileID,
		Amount:    decimal.NewFromFloat(15),
		Category:  "Groceries",
		Type:      domain.TransactionTypeExpense,
		Date:      date("2024-03-03"),
		Period:    "2024-03",
	})
	remove := env.transactionRepo.AddTransaction(&domain.Transaction{
		ProfileID: profileID,
		Amount:    decimal.NewFromFloat(30),
		Category:  "Groceries",
		Type:      domain.TransactionTypeExpense,
		Date:      date("2024-03-05"),
		Period:    "2024-03",
	})

	if err := env.svc.DeleteTransaction(profileID, remove.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !budget.Spent.Equal(decimal.NewFromFloat(15)) {
		t.Errorf("Expected spent 15 after delete, got %s", budget.Spent.String())
	}
}

func TestDeleteTransaction_TransferReversed(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	vacation := env.addSavingsCategory(t, profileID, "Vacation", decimal.NewFromFloat(250))

	transaction := env.transactionRepo.AddTransaction(&domain.Transaction{
		ProfileID:    profileID,
		Amount:       decimal.NewFromFloat(100),
		Category:     "Transfers",
		Type:         domain.TransactionTypeTransfer,
		Date:         date("2024-03-05"),
		Period:       "2024-03",
		FromCategory: strptr("Checking"),
		ToCategory:   strptr("Vacation"),
	})

	if err := env.svc.DeleteTransaction(profileID, transaction.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !vacation.TotalAmount.Equal(decimal.NewFromFloat(150)) {
		t.Errorf("Expected vacation 150 after reversal, got %s", vacation.TotalAmount.String())
	}
}

func TestAddBulkTransactions_AllSucceed(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	budget := env.budgetRepo.AddBudget(&domain.Budget{
		ProfileID: profileID,
		Category:  "Groceries",
		Period:    "2024-03",
		Allocated: decimal.NewFromFloat(300),
		Spent:     decimal.Zero,
	})

	inputs := make([]CreateTransactionInput, 120)
	for i := range inputs {
		inputs[i] = CreateTransactionInput{
			Amount:      decimal.NewFromFloat(2),
			Description: fmt.Sprintf("Item %d", i),
			Category:    "Groceries",
			Type:        domain.TransactionTypeExpense,
			Date:        date("2024-03-05"),
		}
	}

	result, err := env.svc.AddBulkTransactions(profileID, inputs)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Success != 120 {
		t.Errorf("Expected 120 successes, got %d", result.Success)
	}
	if result.Failed != 0 {
		t.Errorf("Expected 0 failures, got %d", result.Failed)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Expected no batch errors, got %v", result.Errors)
	}

	// 120 x 2.00 recalculated from the ledger
	if !budget.Spent.Equal(decimal.NewFromFloat(240)) {
		t.Errorf("Expected spent 240, got %s", budget.Spent.String())
	}
}

func TestAddBulkTransactions_FailedBatchIsIsolated(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	// Fail only the second batch (index 1)
	batchCalls := 0
	env.transactionRepo.CreateBatchFn = func(transactions []*domain.Transaction) error {
		call := batchCalls
		batchCalls++
		if call == 1 {
			return errors.New("connection reset")
		}
		for _, transaction := range transactions {
			transaction.ID = uuid.New()
			env.transactionRepo.Transactions[transaction.ID] = transaction
		}
		return nil
	}

	inputs := make([]CreateTransactionInput, 130)
	for i := range inputs {
		inputs[i] = CreateTransactionInput{
			Amount:      decimal.NewFromFloat(1),
			Description: fmt.Sprintf("Item %d", i),
			Category:    "Groceries",
			Type:        domain.TransactionTypeExpense,
			Date:        date("2024-03-05"),
		}
	}

	result, err := env.svc.AddBulkTransactions(profileID, inputs)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Batches: 50 + 50 + 30; the middle one fails
	if result.Success != 80 {
		t.Errorf("Expected 80 successes, got %d", result.Success)
	}
	if result.Failed != 50 {
		t.Errorf("Expected 50 failures, got %d", result.Failed)
	}
	if result.Success+result.Failed != 130 {
		t.Errorf("Expected success+failed to equal input size, got %d", result.Success+result.Failed)
	}
	if _, ok := result.Errors[1]; !ok {
		t.Errorf("Expected error keyed by batch index 1, got %v", result.Errors)
	}
	if len(result.Errors) != 1 {
		t.Errorf("Expected exactly one batch error, got %v", result.Errors)
	}
}

func TestAddBulkTransactions_RejectsInvalidRow(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	inputs := []CreateTransactionInput{
		{
			Amount:      decimal.NewFromFloat(5),
			Description: "Fine",
			Category:    "Groceries",
			Type:        domain.TransactionTypeExpense,
			Date:        date("2024-03-05"),
		},
		{
			Amount:      decimal.Zero,
			Description: "Broken",
			Category:    "Groceries",
			Type:        domain.TransactionTypeExpense,
			Date:        date("2024-03-05"),
		},
	}

	_, err := env.svc.AddBulkTransactions(profileID, inputs)
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestArchiveOldTransactions_RecalculatesTouchedBudgets(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	oldDate := time.Now().UTC().AddDate(-2, 0, 0)
	oldPeriod := fmt.Sprintf("%04d-%02d", oldDate.Year(), int(oldDate.Month()))

	budget := env.budgetRepo.AddBudget(&domain.Budget{
		ProfileID: profileID,
		Category:  "Groceries",
		Period:    oldPeriod,
		Allocated: decimal.NewFromFloat(300),
		Spent:     decimal.NewFromFloat(40),
	})

	env.transactionRepo.AddTransaction(&domain.Transaction{
		ProfileID: profileID,
		Amount:    decimal.NewFromFloat(40),
		Category:  "Groceries",
		Type:      domain.TransactionTypeExpense,
		Date:      oldDate,
		Period:    oldPeriod,
	})
	recent := env.transactionRepo.AddTransaction(&domain.Transaction{
		ProfileID: profileID,
		Amount:    decimal.NewFromFloat(10),
		Category:  "Groceries",
		Type:      domain.TransactionTypeExpense,
		Date:      time.Now().UTC().AddDate(0, -1, 0),
		Period:    "2024-03",
	})

	count, err := env.svc.ArchiveOldTransactions(profileID, true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if count != 1 {
		t.Errorf("Expected 1 archived transaction, got %d", count)
	}
	if recent.Archived {
		t.Error("Expected recent transaction to stay active")
	}
	// Archived expenses no longer count toward spent
	if !budget.Spent.IsZero() {
		t.Errorf("Expected spent 0 after archive recalculation, got %s", budget.Spent.String())
	}
}

func TestArchiveOldTransactions_RecalculationDisabled(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	oldDate := time.Now().UTC().AddDate(-2, 0, 0)
	oldPeriod := fmt.Sprintf("%04d-%02d", oldDate.Year(), int(oldDate.Month()))

	budget := env.budgetRepo.AddBudget(&domain.Budget{
		ProfileID: profileID,
		Category:  "Groceries",
		Period:    oldPeriod,
		Allocated: decimal.NewFromFloat(300),
		Spent:     decimal.NewFromFloat(40),
	})

	env.transactionRepo.AddTransaction(&domain.Transaction{
		ProfileID: profileID,
		Amount:    decimal.NewFromFloat(40),
		Category:  "Groceries",
		Type:      domain.TransactionTypeExpense,
		Date:      oldDate,
		Period:    oldPeriod,
	})

	count, err := env.svc.ArchiveOldTransactions(profileID, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 archived transaction, got %d", count)
	}

	if !budget.Spent.Equal(decimal.NewFromFloat(40)) {
		t.Errorf("Expected spent untouched at 40, got %s", budget.Spent.String())
	}
}

func TestGetArchivedTransactions_OnlyArchived(t *testing.T) {
	env := newTransactionTestEnv()
	profileID := uuid.New()

	env.transactionRepo.AddTransaction(&domain.Transaction{
		ProfileID: profileID,
		Amount:    decimal.NewFromFloat(10),
		Category:  "Groceries",
		Type:      domain.TransactionTypeExpense,
		Date:      date("2022-01-05"),
		Period:    "2022-01",
		Archived:  true,
	})
	env.transactionRepo.AddTransaction(&domain.Transaction{
		ProfileID: profileID,
		Amount:    decimal.NewFromFloat(10),
		Category:  "Groceries",
		Type:      domain.TransactionTypeExpense,
		Date:      date("2024-03-05"),
		Period:    "2024-03",
	})

	archived, err := env.svc.GetArchivedTransactions(profileID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(archived) != 1 {
		t.Fatalf("Expected 1 archived transaction, got %d", len(archived))
	}
	if !archived[0].Archived {
		t.Error("Expected returned transaction to be archived")
	}
}
