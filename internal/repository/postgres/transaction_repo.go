package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, profile_id, amount, description, category, type, date, period,
	archived, is_recurring, recurring_type, from_category, to_category, created_at, updated_at`

// Create inserts a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var recurringType pgtype.Text
	if transaction.RecurringType != nil {
		recurringType.String = string(*transaction.RecurringType)
		recurringType.Valid = true
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (profile_id, amount, description, category, type, date, period,
			is_recurring, recurring_type, from_category, to_category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+transactionColumns,
		transaction.ProfileID,
		amount,
		transaction.Description,
		transaction.Category,
		string(transaction.Type),
		pgtype.Date{Time: transaction.Date, Valid: true},
		transaction.Period,
		transaction.IsRecurring,
		recurringType,
		ptrToText(transaction.FromCategory),
		ptrToText(transaction.ToCategory),
	)

	return scanTransaction(row)
}

// CreateBatch inserts a batch of transactions in a single round trip
func (r *TransactionRepository) CreateBatch(transactions []*domain.Transaction) error {
	ctx := context.Background()

	batch := &pgx.Batch{}
	for _, transaction := range transactions {
		amount, err := decimalToPgNumeric(transaction.Amount)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}

		var recurringType pgtype.Text
		if transaction.RecurringType != nil {
			recurringType.String = string(*transaction.RecurringType)
			recurringType.Valid = true
		}

		batch.Queue(`
			INSERT INTO transactions (profile_id, amount, description, category, type, date, period,
				is_recurring, recurring_type, from_category, to_category)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			transaction.ProfileID,
			amount,
			transaction.Description,
			transaction.Category,
			string(transaction.Type),
			pgtype.Date{Time: transaction.Date, Valid: true},
			transaction.Period,
			transaction.IsRecurring,
			recurringType,
			ptrToText(transaction.FromCategory),
			ptrToText(transaction.ToCategory),
		)
	}

	return r.pool.SendBatch(ctx, batch).Close()
}

// GetByID retrieves a transaction by its ID within a profile
func (r *TransactionRepository) GetByID(profileID, id uuid.UUID) (*domain.Transaction, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE profile_id = $1 AND id = $2`,
		profileID, id)

	transaction, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// GetByProfile retrieves transactions for a profile with optional filters,
// ordered by date then creation time, both descending
func (r *TransactionRepository) GetByProfile(profileID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	ctx := context.Background()

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE profile_id = $1`
	args := []interface{}{profileID}

	if filters != nil {
		if filters.ArchivedOnly {
			query += " AND archived = true"
		} else if !filters.IncludeArchived {
			query += " AND archived = false"
		}
		if filters.StartDate != nil {
			args = append(args, pgtype.Date{Time: *filters.StartDate, Valid: true})
			query += fmt.Sprintf(" AND date >= $%d", len(args))
		}
		if filters.EndDate != nil {
			args = append(args, pgtype.Date{Time: *filters.EndDate, Valid: true})
			query += fmt.Sprintf(" AND date <= $%d", len(args))
		}
		if filters.Category != nil {
			args = append(args, *filters.Category)
			query += fmt.Sprintf(" AND category = $%d", len(args))
		}
		if filters.Type != nil {
			args = append(args, string(*filters.Type))
			query += fmt.Sprintf(" AND type = $%d", len(args))
		}
		if filters.Period != nil {
			args = append(args, *filters.Period)
			query += fmt.Sprintf(" AND period = $%d", len(args))
		}
	} else {
		query += " AND archived = false"
	}

	query += " ORDER BY date DESC, created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Update rewrites the mutable fields of a transaction
func (r *TransactionRepository) Update(profileID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var recurringType pgtype.Text
	if data.RecurringType != nil {
		recurringType.String = string(*data.RecurringType)
		recurringType.Valid = true
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET amount = $3, description = $4, category = $5, type = $6, date = $7, period = $8,
			is_recurring = $9, recurring_type = $10, from_category = $11, to_category = $12,
			updated_at = now()
		WHERE profile_id = $1 AND id = $2
		RETURNING `+transactionColumns,
		profileID,
		id,
		amount,
		data.Description,
		data.Category,
		string(data.Type),
		pgtype.Date{Time: data.Date, Valid: true},
		data.Period,
		data.IsRecurring,
		recurringType,
		ptrToText(data.FromCategory),
		ptrToText(data.ToCategory),
	)

	transaction, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// Delete removes a transaction row
func (r *TransactionRepository) Delete(profileID, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM transactions
		WHERE profile_id = $1 AND id = $2`,
		profileID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// SumExpenses totals non-archived expense amounts for a category/period pair
func (r *TransactionRepository) SumExpenses(profileID uuid.UUID, category, period string) (decimal.Decimal, error) {
	ctx := context.Background()

	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE profile_id = $1 AND category = $2 AND period = $3
			AND type = 'expense' AND archived = false`,
		profileID, category, period).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

// ArchiveOlderThan marks non-archived transactions dated before cutoff as
// archived and returns the affected rows
func (r *TransactionRepository) ArchiveOlderThan(profileID uuid.UUID, cutoff time.Time) ([]*domain.Transaction, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		UPDATE transactions
		SET archived = true, updated_at = now()
		WHERE profile_id = $1 AND archived = false AND date < $2
		RETURNING `+transactionColumns,
		profileID, pgtype.Date{Time: cutoff, Valid: true})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// UpdatePeriod rewrites the stored period bucket for a single row
func (r *TransactionRepository) UpdatePeriod(profileID, id uuid.UUID, period string) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		UPDATE transactions
		SET period = $3, updated_at = now()
		WHERE profile_id = $1 AND id = $2`,
		profileID, id, period)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t             domain.Transaction
		amount        pgtype.Numeric
		txType        string
		date          pgtype.Date
		recurringType pgtype.Text
		fromCategory  pgtype.Text
		toCategory    pgtype.Text
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)

	err := row.Scan(
		&t.ID,
		&t.ProfileID,
		&amount,
		&t.Description,
		&t.Category,
		&txType,
		&date,
		&t.Period,
		&t.Archived,
		&t.IsRecurring,
		&recurringType,
		&fromCategory,
		&toCategory,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Amount = pgNumericToDecimal(amount)
	t.Type = domain.TransactionType(txType)
	t.Date = date.Time
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	if recurringType.Valid {
		rt := domain.RecurringType(recurringType.String)
		t.RecurringType = &rt
	}
	t.FromCategory = textToPtr(fromCategory)
	t.ToCategory = textToPtr(toCategory)

	return &t, nil
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	transactions := []*domain.Transaction{}
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}
