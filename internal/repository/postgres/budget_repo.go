package postgres

import (
	"context"
	"fmt"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, profile_id, category, period, allocated, spent, created_at, updated_at`

// Create inserts a new budget
func (r *BudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()

	allocated, err := decimalToPgNumeric(budget.Allocated)
	if err != nil {
		return nil, fmt.Errorf("invalid allocated amount: %w", err)
	}
	spent, err := decimalToPgNumeric(budget.Spent)
	if err != nil {
		return nil, fmt.Errorf("invalid spent amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO budgets (profile_id, category, period, allocated, spent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+budgetColumns,
		budget.ProfileID, budget.Category, budget.Period, allocated, spent)

	return scanBudget(row)
}

// GetByID retrieves a budget by its ID within a profile
func (r *BudgetRepository) GetByID(profileID, id uuid.UUID) (*domain.Budget, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE profile_id = $1 AND id = $2`,
		profileID, id)

	budget, err := scanBudget(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// GetByKey looks up the unique budget for (profile, category, period)
func (r *BudgetRepository) GetByKey(profileID uuid.UUID, category, period string) (*domain.Budget, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE profile_id = $1 AND category = $2 AND period = $3`,
		profileID, category, period)

	budget, err := scanBudget(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// GetByProfile lists budgets, optionally restricted to one period
func (r *BudgetRepository) GetByProfile(profileID uuid.UUID, period string) ([]*domain.Budget, error) {
	ctx := context.Background()

	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE profile_id = $1`
	args := []interface{}{profileID}
	if period != "" {
		args = append(args, period)
		query += " AND period = $2"
	}
	query += " ORDER BY period DESC, category ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []*domain.Budget{}
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return budgets, nil
}

// SetSpent overwrites the spent amount of a budget
func (r *BudgetRepository) SetSpent(profileID, id uuid.UUID, spent decimal.Decimal) error {
	return r.setAmount(profileID, id, "spent", spent)
}

// SetAllocated overwrites the allocated amount of a budget
func (r *BudgetRepository) SetAllocated(profileID, id uuid.UUID, allocated decimal.Decimal) error {
	return r.setAmount(profileID, id, "allocated", allocated)
}

func (r *BudgetRepository) setAmount(profileID, id uuid.UUID, column string, amount decimal.Decimal) error {
	ctx := context.Background()

	value, err := decimalToPgNumeric(amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE budgets
		SET `+column+` = $3, updated_at = now()
		WHERE profile_id = $1 AND id = $2`,
		profileID, id, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

// Delete removes a budget row
func (r *BudgetRepository) Delete(profileID, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM budgets
		WHERE profile_id = $1 AND id = $2`,
		profileID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		b         domain.Budget
		allocated pgtype.Numeric
		spent     pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&b.ID, &b.ProfileID, &b.Category, &b.Period, &allocated, &spent, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	b.Allocated = pgNumericToDecimal(allocated)
	b.Spent = pgNumericToDecimal(spent)
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return &b, nil
}
