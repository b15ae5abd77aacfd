package domain

import "github.com/google/uuid"

// UserSettings holds per-profile configuration. PeriodStartDay (1-31) is
// the only input the period calculator consumes; a missing settings row is
// treated as PeriodStartDay = DefaultPeriodStartDay, not as an error.
type UserSettings struct {
	ProfileID      uuid.UUID `json:"profileId"`
	PeriodStartDay int       `json:"periodStartDay"`
}

type SettingsRepository interface {
	GetByProfile(profileID uuid.UUID) (*UserSettings, error)
	Upsert(settings *UserSettings) (*UserSettings, error)
}
