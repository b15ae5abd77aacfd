// Command seed populates a development database with realistic fake data:
// one demo profile with categories, budgets, savings pots, and a year of
// transactions.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/centsible/centsible-backend/internal/config"
	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/repository/postgres"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/centsible/centsible-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var expenseCategories = []string{"Groceries", "Dining", "Transport", "Utilities", "Entertainment", "Health"}
var savingsCategories = []string{"Emergency Fund", "Vacation", "New Car"}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	profileRepo := postgres.NewProfileRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	savingsRepo := postgres.NewSavingsRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)

	publisher := &websocket.NoOpPublisher{}
	aggregateService := service.NewAggregateService(transactionRepo, budgetRepo, savingsRepo, categoryRepo)
	transactionService := service.NewTransactionService(transactionRepo, settingsRepo, aggregateService, publisher)
	budgetService := service.NewBudgetService(budgetRepo, transactionRepo, publisher)
	savingsService := service.NewSavingsService(savingsRepo, publisher)
	categoryService := service.NewCategoryService(categoryRepo)

	gofakeit.Seed(time.Now().UnixNano())

	profile, err := profileRepo.CreateOrGetByUserID("seed|demo", gofakeit.Email(), gofakeit.Name())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to provision demo profile")
	}
	log.Info().Str("profile_id", profile.ID.String()).Str("email", profile.Email).Msg("Demo profile ready")

	for _, name := range expenseCategories {
		if _, err := categoryService.CreateCategory(profile.ID, name, domain.CategoryTypeBudget); err != nil {
			log.Warn().Err(err).Str("category", name).Msg("Category not created")
		}
	}
	for _, name := range savingsCategories {
		if _, err := categoryService.CreateCategory(profile.ID, name, domain.CategoryTypeSavings); err != nil {
			log.Warn().Err(err).Str("category", name).Msg("Category not created")
		}
		if _, err := savingsService.CreateSavings(profile.ID, name, decimal.Zero); err != nil {
			log.Warn().Err(err).Str("category", name).Msg("Savings pot not created")
		}
	}

	// Budgets for the last three periods
	now := time.Now().UTC()
	for monthsBack := 0; monthsBack < 3; monthsBack++ {
		month := now.AddDate(0, -monthsBack, 0)
		period := fmt.Sprintf("%04d-%02d", month.Year(), int(month.Month()))
		for _, category := range expenseCategories {
			allocated := decimal.NewFromFloat(gofakeit.Float64Range(100, 800)).Round(2)
			if _, err := budgetService.CreateBudget(profile.ID, service.CreateBudgetInput{
				Category:  category,
				Period:    period,
				Allocated: allocated,
			}); err != nil {
				log.Warn().Err(err).Str("category", category).Str("period", period).Msg("Budget not created")
			}
		}
	}

	// A year of transactions posted through the service so aggregates stay
	// consistent
	created := 0
	for i := 0; i < 400; i++ {
		date := gofakeit.DateRange(now.AddDate(-1, 0, 0), now)

		var input service.CreateTransactionInput
		switch gofakeit.Number(0, 9) {
		case 0, 1:
			input = service.CreateTransactionInput{
				Amount:      decimal.NewFromFloat(gofakeit.Float64Range(1000, 5000)).Round(2),
				Description: "Salary",
				Category:    "Income",
				Type:        domain.TransactionTypeIncome,
				Date:        date,
			}
		case 2:
			from := "Checking"
			to := savingsCategories[gofakeit.Number(0, len(savingsCategories)-1)]
			input = service.CreateTransactionInput{
				Amount:       decimal.NewFromFloat(gofakeit.Float64Range(50, 400)).Round(2),
				Description:  "Monthly savings",
				Category:     to,
				Type:         domain.TransactionTypeTransfer,
				Date:         date,
				FromCategory: &from,
				ToCategory:   &to,
			}
		default:
			input = service.CreateTransactionInput{
				Amount:      decimal.NewFromFloat(gofakeit.Float64Range(3, 150)).Round(2),
				Description: gofakeit.ProductName(),
				Category:    expenseCategories[gofakeit.Number(0, len(expenseCategories)-1)],
				Type:        domain.TransactionTypeExpense,
				Date:        date,
			}
		}

		if _, err := transactionService.CreateTransaction(profile.ID, input); err != nil {
			log.Warn().Err(err).Msg("Transaction not created")
			continue
		}
		created++
	}

	log.Info().Int("transactions", created).Msg("Seed complete")
}
