package service

import (
	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SettingsService handles user settings business logic
type SettingsService struct {
	settingsRepo    domain.SettingsRepository
	transactionRepo domain.TransactionRepository
	aggregates      *AggregateService
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(
	settingsRepo domain.SettingsRepository,
	transactionRepo domain.TransactionRepository,
	aggregates *AggregateService,
) *SettingsService {
	return &SettingsService{
		settingsRepo:    settingsRepo,
		transactionRepo: transactionRepo,
		aggregates:      aggregates,
	}
}

// GetSettings retrieves the profile's settings, defaulting when no row
// exists yet
func (s *SettingsService) GetSettings(profileID uuid.UUID) (*domain.UserSettings, error) {
	settings, err := s.settingsRepo.GetByProfile(profileID)
	if err == domain.ErrSettingsNotFound {
		return &domain.UserSettings{
			ProfileID:      profileID,
			PeriodStartDay: domain.DefaultPeriodStartDay,
		}, nil
	}
	return settings, err
}

// UpdatePeriodStartDay changes the day of month on which budget periods
// roll over. Valid values are 1 through 31.
func (s *SettingsService) UpdatePeriodStartDay(profileID uuid.UUID, day int) (*domain.UserSettings, error) {
	if day < 1 || day > 31 {
		return nil, domain.ErrInvalidPeriodStartDay
	}

	return s.settingsRepo.Upsert(&domain.UserSettings{
		ProfileID:      profileID,
		PeriodStartDay: day,
	})
}

// RecomputePeriods re-buckets every transaction under the current period
// start day and recalculates the budgets whose membership changed. Existing
// transactions keep their period when settings change until this runs.
func (s *SettingsService) RecomputePeriods(profileID uuid.UUID) (int, error) {
	settings, err := s.GetSettings(profileID)
	if err != nil {
		return 0, err
	}

	transactions, err := s.transactionRepo.GetByProfile(profileID, &domain.TransactionFilters{IncludeArchived: true})
	if err != nil {
		return 0, err
	}

	touched := make(map[budgetKey]struct{})
	moved := 0
	for _, t := range transactions {
		period := util.CalculatePeriod(t.Date, settings.PeriodStartDay)
		if period == t.Period {
			continue
		}

		if err := s.transactionRepo.UpdatePeriod(profileID, t.ID, period); err != nil {
			return moved, err
		}
		moved++

		if t.Type == domain.TransactionTypeExpense {
			touched[budgetKey{t.Category, t.Period}] = struct{}{}
			touched[budgetKey{t.Category, period}] = struct{}{}
		}
	}

	for key := range touched {
		if err := s.aggregates.RecalculateBudgetSpent(profileID, key.category, key.period); err != nil {
			return moved, err
		}
	}

	log.Info().
		Str("profile_id", profileID.String()).
		Int("moved", moved).
		Int("budgets_recalculated", len(touched)).
		Msg("Recomputed transaction periods")
	return moved, nil
}
