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

// SavingsRepository implements domain.SavingsRepository using PostgreSQL
type SavingsRepository struct {
	pool *pgxpool.Pool
}

// NewSavingsRepository creates a new SavingsRepository
func NewSavingsRepository(pool *pgxpool.Pool) *SavingsRepository {
	return &SavingsRepository{pool: pool}
}

const savingsColumns = `id, profile_id, category, total_amount, created_at, updated_at`

// Create inserts a new savings row
func (r *SavingsRepository) Create(savings *domain.Savings) (*domain.Savings, error) {
	ctx := context.Background()

	total, err := decimalToPgNumeric(savings.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid total amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO savings (profile_id, category, total_amount)
		VALUES ($1, $2, $3)
		RETURNING `+savingsColumns,
		savings.ProfileID, savings.Category, total)

	return scanSavings(row)
}

// GetByID retrieves a savings row by its ID within a profile
func (r *SavingsRepository) GetByID(profileID, id uuid.UUID) (*domain.Savings, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+savingsColumns+`
		FROM savings
		WHERE profile_id = $1 AND id = $2`,
		profileID, id)

	savings, err := scanSavings(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrSavingsNotFound
		}
		return nil, err
	}
	return savings, nil
}

// GetByCategory looks up the savings row for a category
func (r *SavingsRepository) GetByCategory(profileID uuid.UUID, category string) (*domain.Savings, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+savingsColumns+`
		FROM savings
		WHERE profile_id = $1 AND category = $2`,
		profileID, category)

	savings, err := scanSavings(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrSavingsNotFound
		}
		return nil, err
	}
	return savings, nil
}

// GetByProfile lists all savings rows for a profile
func (r *SavingsRepository) GetByProfile(profileID uuid.UUID) ([]*domain.Savings, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+savingsColumns+`
		FROM savings
		WHERE profile_id = $1
		ORDER BY category ASC`,
		profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*domain.Savings{}
	for rows.Next() {
		savings, err := scanSavings(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, savings)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetTotal overwrites the accumulated total of a savings row
func (r *SavingsRepository) SetTotal(profileID, id uuid.UUID, total decimal.Decimal) error {
	ctx := context.Background()

	value, err := decimalToPgNumeric(total)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE savings
		SET total_amount = $3, updated_at = now()
		WHERE profile_id = $1 AND id = $2`,
		profileID, id, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSavingsNotFound
	}
	return nil
}

// Delete removes a savings row
func (r *SavingsRepository) Delete(profileID, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM savings
		WHERE profile_id = $1 AND id = $2`,
		profileID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSavingsNotFound
	}
	return nil
}

func scanSavings(row pgx.Row) (*domain.Savings, error) {
	var (
		s         domain.Savings
		total     pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&s.ID, &s.ProfileID, &s.Category, &total, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	s.TotalAmount = pgNumericToDecimal(total)
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time
	return &s, nil
}
