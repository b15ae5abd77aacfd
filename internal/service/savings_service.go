package service

import (
	"errors"
	"strings"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SavingsService handles savings pot business logic
type SavingsService struct {
	savingsRepo domain.SavingsRepository
	publisher   websocket.EventPublisher
}

// NewSavingsService creates a new SavingsService
func NewSavingsService(savingsRepo domain.SavingsRepository, publisher websocket.EventPublisher) *SavingsService {
	return &SavingsService{savingsRepo: savingsRepo, publisher: publisher}
}

// CreateSavings creates a savings pot for a category with an optional
// starting total
func (s *SavingsService) CreateSavings(profileID uuid.UUID, category string, initialTotal decimal.Decimal) (*domain.Savings, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, domain.ErrNameRequired
	}
	if initialTotal.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	if _, err := s.savingsRepo.GetByCategory(profileID, category); err == nil {
		return nil, domain.ErrSavingsExists
	} else if !errors.Is(err, domain.ErrSavingsNotFound) {
		return nil, err
	}

	savings, err := s.savingsRepo.Create(&domain.Savings{
		ProfileID:   profileID,
		Category:    category,
		TotalAmount: initialTotal.Round(2),
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(profileID, websocket.SavingsUpdated(savings))
	return savings, nil
}

// GetSavings retrieves all savings pots for a profile
func (s *SavingsService) GetSavings(profileID uuid.UUID) ([]*domain.Savings, error) {
	return s.savingsRepo.GetByProfile(profileID)
}

// GetSavingsByID retrieves a single savings pot
func (s *SavingsService) GetSavingsByID(profileID, id uuid.UUID) (*domain.Savings, error) {
	return s.savingsRepo.GetByID(profileID, id)
}

// SetTotal directly sets a savings pot's total. Used for manual corrections
// outside the transfer flow.
func (s *SavingsService) SetTotal(profileID, id uuid.UUID, total decimal.Decimal) (*domain.Savings, error) {
	if total.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	savings, err := s.savingsRepo.GetByID(profileID, id)
	if err != nil {
		return nil, err
	}

	if err := s.savingsRepo.SetTotal(profileID, savings.ID, total.Round(2)); err != nil {
		return nil, err
	}

	updated, err := s.savingsRepo.GetByID(profileID, id)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(profileID, websocket.SavingsUpdated(updated))
	return updated, nil
}

// DeleteSavings removes a savings pot
func (s *SavingsService) DeleteSavings(profileID, id uuid.UUID) error {
	savings, err := s.savingsRepo.GetByID(profileID, id)
	if err != nil {
		return err
	}

	if err := s.savingsRepo.Delete(profileID, id); err != nil {
		return err
	}

	s.publisher.Publish(profileID, websocket.SavingsUpdated(savings))
	return nil
}
