package postgres

import (
	"context"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create inserts a new category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (profile_id, name, type)
		VALUES ($1, $2, $3)
		RETURNING id, profile_id, name, type, created_at`,
		category.ProfileID, category.Name, string(category.Type))

	return scanCategory(row)
}

// GetByName looks up a category by its name within a profile
func (r *CategoryRepository) GetByName(profileID uuid.UUID, name string) (*domain.Category, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT id, profile_id, name, type, created_at
		FROM categories
		WHERE profile_id = $1 AND name = $2`,
		profileID, name)

	category, err := scanCategory(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetByProfile lists all categories for a profile
func (r *CategoryRepository) GetByProfile(profileID uuid.UUID) ([]*domain.Category, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT id, profile_id, name, type, created_at
		FROM categories
		WHERE profile_id = $1
		ORDER BY name ASC`,
		profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

// Update renames or reclassifies a category
func (r *CategoryRepository) Update(profileID, id uuid.UUID, name string, categoryType domain.CategoryType) (*domain.Category, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		UPDATE categories
		SET name = $3, type = $4
		WHERE profile_id = $1 AND id = $2
		RETURNING id, profile_id, name, type, created_at`,
		profileID, id, name, string(categoryType))

	category, err := scanCategory(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// Delete removes a category row
func (r *CategoryRepository) Delete(profileID, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM categories
		WHERE profile_id = $1 AND id = $2`,
		profileID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		c            domain.Category
		categoryType string
		createdAt    pgtype.Timestamptz
	)

	err := row.Scan(&c.ID, &c.ProfileID, &c.Name, &categoryType, &createdAt)
	if err != nil {
		return nil, err
	}

	c.Type = domain.CategoryType(categoryType)
	c.CreatedAt = createdAt.Time
	return &c, nil
}
