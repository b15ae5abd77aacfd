package postgres

import (
	"context"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepository implements domain.SettingsRepository using PostgreSQL
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// GetByProfile retrieves the settings row for a profile. A missing row is
// reported as domain.ErrSettingsNotFound; callers treat that as "use
// defaults", not as a store failure.
func (r *SettingsRepository) GetByProfile(profileID uuid.UUID) (*domain.UserSettings, error) {
	ctx := context.Background()

	settings := &domain.UserSettings{}
	err := r.pool.QueryRow(ctx, `
		SELECT profile_id, period_start_day
		FROM user_settings
		WHERE profile_id = $1`,
		profileID).Scan(&settings.ProfileID, &settings.PeriodStartDay)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, err
	}
	return settings, nil
}

// Upsert creates or replaces the settings row for a profile
func (r *SettingsRepository) Upsert(settings *domain.UserSettings) (*domain.UserSettings, error) {
	ctx := context.Background()

	updated := &domain.UserSettings{}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO user_settings (profile_id, period_start_day)
		VALUES ($1, $2)
		ON CONFLICT (profile_id) DO UPDATE SET period_start_day = EXCLUDED.period_start_day
		RETURNING profile_id, period_start_day`,
		settings.ProfileID, settings.PeriodStartDay).Scan(&updated.ProfileID, &updated.PeriodStartDay)
	if err != nil {
		return nil, err
	}
	return updated, nil
}
