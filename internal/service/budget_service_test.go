package service

import (
	"errors"
	"testing"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/testutil"
	"github.com/centsible/centsible-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newBudgetTestEnv() (*BudgetService, *testutil.MockBudgetRepository, *testutil.MockTransactionRepository) {
	budgetRepo := testutil.NewMockBudgetRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewBudgetService(budgetRepo, transactionRepo, &websocket.NoOpPublisher{})
	return svc, budgetRepo, transactionRepo
}

func TestCreateBudget_SeedsSpentFromLedger(t *testing.T) {
	svc, _, transactionRepo := newBudgetTestEnv()
	profileID := uuid.New()

	transactionRepo.AddTransaction(&domain.Transaction{
		ProfileID: profileID,
		Amount:    decimal.NewFromFloat(18),
		Category:  "Groceries",
		Type:      domain.TransactionTypeExpense,
		Period:    "2024-03",
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		ProfileID: profileID,
		Amount:    decimal.NewFromFloat(7),
		Category:  "Groceries",
		Type:      domain.TransactionTypeExpense,
		Period:    "2024-03",
	})

	budget, err := svc.CreateBudget(profileID, CreateBudgetInput{
		Category:  "Groceries",
		Period:    "2024-03",
		Allocated: decimal.NewFromFloat(300),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !budget.Spent.Equal(decimal.NewFromFloat(25)) {
		t.Errorf("Expected spent seeded at 25, got %s", budget.Spent.String())
	}
}

func TestCreateBudget_DuplicateRejected(t *testing.T) {
	svc, budgetRepo, _ := newBudgetTestEnv()
	profileID := uuid.New()

	budgetRepo.AddBudget(&domain.Budget{
		ProfileID: profileID,
		Category:  "Groceries",
		Period:    "2024-03",
		Allocated: decimal.NewFromFloat(300),
	})

	_, err := svc.CreateBudget(profileID, CreateBudgetInput{
		Category:  "Groceries",
		Period:    "2024-03",
		Allocated: decimal.NewFromFloat(200),
	})
	if !errors.Is(err, domain.ErrBudgetExists) {
		t.Errorf("Expected ErrBudgetExists, got %v", err)
	}
}

func TestCreateBudget_InvalidPeriod(t *testing.T) {
	svc, _, _ := newBudgetTestEnv()
	profileID := uuid.New()

	for _, period := range []string{"2024-13", "2024-00", "2024-3", "march", ""} {
		_, err := svc.CreateBudget(profileID, CreateBudgetInput{
			Category:  "Groceries",
			Period:    period,
			Allocated: decimal.NewFromFloat(100),
		})
		if !errors.Is(err, domain.ErrInvalidPeriod) {
			t.Errorf("Expected ErrInvalidPeriod for %q, got %v", period, err)
		}
	}
}

func TestCreateBudget_NegativeAllocation(t *testing.T) {
	svc, _, _ := newBudgetTestEnv()

	_, err := svc.CreateBudget(uuid.New(), CreateBudgetInput{
		Category:  "Groceries",
		Period:    "2024-03",
		Allocated: decimal.NewFromFloat(-1),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestGetBudgets_FilteredByPeriod(t *testing.T) {
	svc, budgetRepo, _ := newBudgetTestEnv()
	profileID := uuid.New()

	budgetRepo.AddBudget(&domain.Budget{ProfileID: profileID, Category: "Groceries", Period: "2024-03"})
	budgetRepo.AddBudget(&domain.Budget{ProfileID: profileID, Category: "Dining", Period: "2024-03"})
	budgetRepo.AddBudget(&domain.Budget{ProfileID: profileID, Category: "Groceries", Period: "2024-02"})

	budgets, err := svc.GetBudgets(profileID, "2024-03")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(budgets) != 2 {
		t.Errorf("Expected 2 budgets for 2024-03, got %d", len(budgets))
	}
}

func TestUpdateAllocation_RoundsToCents(t *testing.T) {
	svc, budgetRepo, _ := newBudgetTestEnv()
	profileID := uuid.New()

	budget := budgetRepo.AddBudget(&domain.Budget{
		ProfileID: profileID,
		Category:  "Groceries",
		Period:    "2024-03",
		Allocated: decimal.NewFromFloat(300),
	})

	updated, err := svc.UpdateAllocation(profileID, budget.ID, decimal.RequireFromString("250.555"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !updated.Allocated.Equal(decimal.RequireFromString("250.56")) {
		t.Errorf("Expected allocation 250.56, got %s", updated.Allocated.String())
	}
}

func TestDeleteBudget_NotFound(t *testing.T) {
	svc, _, _ := newBudgetTestEnv()

	err := svc.DeleteBudget(uuid.New(), uuid.New())
	if !errors.Is(err, domain.ErrBudgetNotFound) {
		t.Errorf("Expected ErrBudgetNotFound, got %v", err)
	}
}
