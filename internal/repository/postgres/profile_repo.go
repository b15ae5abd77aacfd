package postgres

import (
	"context"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository implements domain.ProfileRepository using PostgreSQL
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, user_id, email, name, avatar_url, created_at, updated_at`

// GetByID retrieves a profile by its ID
func (r *ProfileRepository) GetByID(id uuid.UUID) (*domain.Profile, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE id = $1`, id)

	return scanProfile(row)
}

// GetByUserID retrieves a profile by the authenticated subject
func (r *ProfileRepository) GetByUserID(userID string) (*domain.Profile, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE user_id = $1`, userID)

	return scanProfile(row)
}

// CreateOrGetByUserID provisions a profile idempotently. The no-op DO UPDATE
// makes the insert return the existing row on conflict, so the call is safe
// whether or not provisioning already happened elsewhere.
func (r *ProfileRepository) CreateOrGetByUserID(userID, email, name string) (*domain.Profile, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (user_id, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING `+profileColumns,
		userID, email, name)

	return scanProfile(row)
}

// UpdateName changes the profile display name
func (r *ProfileRepository) UpdateName(id uuid.UUID, name string) (*domain.Profile, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		UPDATE profiles
		SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+profileColumns,
		id, name)

	return scanProfile(row)
}

// UpdateAvatarURL stores the uploaded avatar location
func (r *ProfileRepository) UpdateAvatarURL(id uuid.UUID, avatarURL string) (*domain.Profile, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		UPDATE profiles
		SET avatar_url = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+profileColumns,
		id, avatarURL)

	return scanProfile(row)
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		p         domain.Profile
		avatarURL pgtype.Text
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&p.ID, &p.UserID, &p.Email, &p.Name, &avatarURL, &createdAt, &updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}

	p.AvatarURL = textToPtr(avatarURL)
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	return &p, nil
}
