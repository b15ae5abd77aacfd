package testutil

import (
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	CreateBatchFn func(transactions []*domain.Transaction) error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	t := *transaction
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	m.Transactions[t.ID] = &t
	return &t, nil
}

// CreateBatch inserts transactions as a single batch
func (m *MockTransactionRepository) CreateBatch(transactions []*domain.Transaction) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(transactions)
	}
	for _, transaction := range transactions {
		transaction.ID = uuid.New()
		transaction.CreatedAt = time.Now()
		transaction.UpdatedAt = transaction.CreatedAt
		m.Transactions[transaction.ID] = transaction
	}
	return nil
}

// GetByID retrieves a transaction by ID
func (m *MockTransactionRepository) GetByID(profileID, id uuid.UUID) (*domain.Transaction, error) {
	if t, ok := m.Transactions[id]; ok && t.ProfileID == profileID {
		return t, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// GetByProfile lists transactions matching the filters
func (m *MockTransactionRepository) GetByProfile(profileID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}
	result := make([]*domain.Transaction, 0)
	for _, t := range m.Transactions {
		if t.ProfileID != profileID {
			continue
		}
		if filters.ArchivedOnly && !t.Archived {
			continue
		}
		if !filters.ArchivedOnly && !filters.IncludeArchived && t.Archived {
			continue
		}
		if filters.StartDate != nil && t.Date.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil && t.Date.After(*filters.EndDate) {
			continue
		}
		if filters.Category != nil && t.Category != *filters.Category {
			continue
		}
		if filters.Type != nil && t.Type != *filters.Type {
			continue
		}
		if filters.Period != nil && t.Period != *filters.Period {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

// Update replaces a transaction's fields
func (m *MockTransactionRepository) Update(profileID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	t, ok := m.Transactions[id]
	if !ok || t.ProfileID != profileID {
		return nil, domain.ErrTransactionNotFound
	}
	t.Amount = data.Amount
	t.Description = data.Description
	t.Category = data.Category
	t.Type = data.Type
	t.Date = data.Date
	t.Period = data.Period
	t.IsRecurring = data.IsRecurring
	t.RecurringType = data.RecurringType
	t.FromCategory = data.FromCategory
	t.ToCategory = data.ToCategory
	t.UpdatedAt = time.Now()
	return t, nil
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(profileID, id uuid.UUID) error {
	if t, ok := m.Transactions[id]; ok && t.ProfileID == profileID {
		delete(m.Transactions, id)
		return nil
	}
	return domain.ErrTransactionNotFound
}

// SumExpenses totals non-archived expense amounts for a category/period pair
func (m *MockTransactionRepository) SumExpenses(profileID uuid.UUID, category, period string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range m.Transactions {
		if t.ProfileID != profileID || t.Archived {
			continue
		}
		if t.Type != domain.TransactionTypeExpense {
			continue
		}
		if t.Category != category || t.Period != period {
			continue
		}
		sum = sum.Add(t.Amount)
	}
	return sum, nil
}

// ArchiveOlderThan marks transactions dated before cutoff as archived
func (m *MockTransactionRepository) ArchiveOlderThan(profileID uuid.UUID, cutoff time.Time) ([]*domain.Transaction, error) {
	archived := make([]*domain.Transaction, 0)
	for _, t := range m.Transactions {
		if t.ProfileID != profileID || t.Archived {
			continue
		}
		if t.Date.Before(cutoff) {
			t.Archived = true
			archived = append(archived, t)
		}
	}
	return archived, nil
}

// UpdatePeriod rewrites the stored period bucket for a single row
func (m *MockTransactionRepository) UpdatePeriod(profileID, id uuid.UUID, period string) error {
	if t, ok := m.Transactions[id]; ok && t.ProfileID == profileID {
		t.Period = period
		return nil
	}
	return domain.ErrTransactionNotFound
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(t *domain.Transaction) *domain.Transaction {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.Transactions[t.ID] = t
	return t
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets    map[uuid.UUID]*domain.Budget
	SetSpentFn func(profileID, id uuid.UUID, spent decimal.Decimal) error
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[uuid.UUID]*domain.Budget),
	}
}

// Create creates a new budget
func (m *MockBudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	b := *budget
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.Budgets[b.ID] = &b
	return &b, nil
}

// GetByID retrieves a budget by ID
func (m *MockBudgetRepository) GetByID(profileID, id uuid.UUID) (*domain.Budget, error) {
	if b, ok := m.Budgets[id]; ok && b.ProfileID == profileID {
		return b, nil
	}
	return nil, domain.ErrBudgetNotFound
}

// GetByKey looks up the unique budget for (profile, category, period)
func (m *MockBudgetRepository) GetByKey(profileID uuid.UUID, category, period string) (*domain.Budget, error) {
	for _, b := range m.Budgets {
		if b.ProfileID == profileID && b.Category == category && b.Period == period {
			return b, nil
		}
	}
	return nil, domain.ErrBudgetNotFound
}

// GetByProfile lists budgets, optionally restricted to one period
func (m *MockBudgetRepository) GetByProfile(profileID uuid.UUID, period string) ([]*domain.Budget, error) {
	result := make([]*domain.Budget, 0)
	for _, b := range m.Budgets {
		if b.ProfileID != profileID {
			continue
		}
		if period != "" && b.Period != period {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

// SetSpent sets a budget's spent total
func (m *MockBudgetRepository) SetSpent(profileID, id uuid.UUID, spent decimal.Decimal) error {
	if m.SetSpentFn != nil {
		return m.SetSpentFn(profileID, id, spent)
	}
	if b, ok := m.Budgets[id]; ok && b.ProfileID == profileID {
		b.Spent = spent
		return nil
	}
	return domain.ErrBudgetNotFound
}

// SetAllocated sets a budget's allocated amount
func (m *MockBudgetRepository) SetAllocated(profileID, id uuid.UUID, allocated decimal.Decimal) error {
	if b, ok := m.Budgets[id]; ok && b.ProfileID == profileID {
		b.Allocated = allocated
		return nil
	}
	return domain.ErrBudgetNotFound
}

// Delete removes a budget
func (m *MockBudgetRepository) Delete(profileID, id uuid.UUID) error {
	if b, ok := m.Budgets[id]; ok && b.ProfileID == profileID {
		delete(m.Budgets, id)
		return nil
	}
	return domain.ErrBudgetNotFound
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(b *domain.Budget) *domain.Budget {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	m.Budgets[b.ID] = b
	return b
}

// MockSavingsRepository is a mock implementation of domain.SavingsRepository
type MockSavingsRepository struct {
	Savings map[uuid.UUID]*domain.Savings
}

// NewMockSavingsRepository creates a new MockSavingsRepository
func NewMockSavingsRepository() *MockSavingsRepository {
	return &MockSavingsRepository{
		Savings: make(map[uuid.UUID]*domain.Savings),
	}
}

// Create creates a new savings pot
func (m *MockSavingsRepository) Create(savings *domain.Savings) (*domain.Savings, error) {
	s := *savings
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	m.Savings[s.ID] = &s
	return &s, nil
}

// GetByID retrieves a savings pot by ID
func (m *MockSavingsRepository) GetByID(profileID, id uuid.UUID) (*domain.Savings, error) {
	if s, ok := m.Savings[id]; ok && s.ProfileID == profileID {
		return s, nil
	}
	return nil, domain.ErrSavingsNotFound
}

// GetByCategory retrieves a savings pot by category
func (m *MockSavingsRepository) GetByCategory(profileID uuid.UUID, category string) (*domain.Savings, error) {
	for _, s := range m.Savings {
		if s.ProfileID == profileID && s.Category == category {
			return s, nil
		}
	}
	return nil, domain.ErrSavingsNotFound
}

// GetByProfile lists savings pots for a profile
func (m *MockSavingsRepository) GetByProfile(profileID uuid.UUID) ([]*domain.Savings, error) {
	result := make([]*domain.Savings, 0)
	for _, s := range m.Savings {
		if s.ProfileID == profileID {
			result = append(result, s)
		}
	}
	return result, nil
}

// SetTotal sets a savings pot's total
func (m *MockSavingsRepository) SetTotal(profileID, id uuid.UUID, total decimal.Decimal) error {
	if s, ok := m.Savings[id]; ok && s.ProfileID == profileID {
		s.TotalAmount = total
		return nil
	}
	return domain.ErrSavingsNotFound
}

// Delete removes a savings pot
func (m *MockSavingsRepository) Delete(profileID, id uuid.UUID) error {
	if s, ok := m.Savings[id]; ok && s.ProfileID == profileID {
		delete(m.Savings, id)
		return nil
	}
	return domain.ErrSavingsNotFound
}

// AddSavings adds a savings pot to the mock repository (helper for tests)
func (m *MockSavingsRepository) AddSavings(s *domain.Savings) *domain.Savings {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	m.Savings[s.ID] = s
	return s
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[uuid.UUID]*domain.Category
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[uuid.UUID]*domain.Category),
	}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	c := *category
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	m.Categories[c.ID] = &c
	return &c, nil
}

// GetByName retrieves a category by name
func (m *MockCategoryRepository) GetByName(profileID uuid.UUID, name string) (*domain.Category, error) {
	for _, c := range m.Categories {
		if c.ProfileID == profileID && c.Name == name {
			return c, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// GetByProfile lists categories for a profile
func (m *MockCategoryRepository) GetByProfile(profileID uuid.UUID) ([]*domain.Category, error) {
	result := make([]*domain.Category, 0)
	for _, c := range m.Categories {
		if c.ProfileID == profileID {
			result = append(result, c)
		}
	}
	return result, nil
}

// Update renames or reclassifies a category
func (m *MockCategoryRepository) Update(profileID, id uuid.UUID, name string, categoryType domain.CategoryType) (*domain.Category, error) {
	if c, ok := m.Categories[id]; ok && c.ProfileID == profileID {
		c.Name = name
		c.Type = categoryType
		return c, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// Delete removes a category
func (m *MockCategoryRepository) Delete(profileID, id uuid.UUID) error {
	if c, ok := m.Categories[id]; ok && c.ProfileID == profileID {
		delete(m.Categories, id)
		return nil
	}
	return domain.ErrCategoryNotFound
}

// MockSettingsRepository is a mock implementation of domain.SettingsRepository
type MockSettingsRepository struct {
	Settings map[uuid.UUID]*domain.UserSettings
	GetFn    func(profileID uuid.UUID) (*domain.UserSettings, error)
}

// NewMockSettingsRepository creates a new MockSettingsRepository
func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{
		Settings: make(map[uuid.UUID]*domain.UserSettings),
	}
}

// GetByProfile retrieves settings for a profile
func (m *MockSettingsRepository) GetByProfile(profileID uuid.UUID) (*domain.UserSettings, error) {
	if m.GetFn != nil {
		return m.GetFn(profileID)
	}
	if s, ok := m.Settings[profileID]; ok {
		return s, nil
	}
	return nil, domain.ErrSettingsNotFound
}

// Upsert inserts or updates settings for a profile
func (m *MockSettingsRepository) Upsert(settings *domain.UserSettings) (*domain.UserSettings, error) {
	s := *settings
	m.Settings[s.ProfileID] = &s
	return &s, nil
}

// MockProfileRepository is a mock implementation of domain.ProfileRepository
type MockProfileRepository struct {
	Profiles map[uuid.UUID]*domain.Profile
	ByUserID map[string]*domain.Profile
}

// NewMockProfileRepository creates a new MockProfileRepository
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		Profiles: make(map[uuid.UUID]*domain.Profile),
		ByUserID: make(map[string]*domain.Profile),
	}
}

// GetByID retrieves a profile by ID
func (m *MockProfileRepository) GetByID(id uuid.UUID) (*domain.Profile, error) {
	if p, ok := m.Profiles[id]; ok {
		return p, nil
	}
	return nil, domain.ErrProfileNotFound
}

// GetByUserID retrieves a profile by OIDC subject
func (m *MockProfileRepository) GetByUserID(userID string) (*domain.Profile, error) {
	if p, ok := m.ByUserID[userID]; ok {
		return p, nil
	}
	return nil, domain.ErrProfileNotFound
}

// CreateOrGetByUserID provisions a profile idempotently
func (m *MockProfileRepository) CreateOrGetByUserID(userID, email, name string) (*domain.Profile, error) {
	if p, ok := m.ByUserID[userID]; ok {
		return p, nil
	}
	p := &domain.Profile{
		ID:        uuid.New(),
		UserID:    userID,
		Email:     email,
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.Profiles[p.ID] = p
	m.ByUserID[userID] = p
	return p, nil
}

// UpdateName changes a profile's display name
func (m *MockProfileRepository) UpdateName(id uuid.UUID, name string) (*domain.Profile, error) {
	if p, ok := m.Profiles[id]; ok {
		p.Name = name
		p.UpdatedAt = time.Now()
		return p, nil
	}
	return nil, domain.ErrProfileNotFound
}

// UpdateAvatarURL records the stored avatar object path
func (m *MockProfileRepository) UpdateAvatarURL(id uuid.UUID, avatarURL string) (*domain.Profile, error) {
	if p, ok := m.Profiles[id]; ok {
		if avatarURL == "" {
			p.AvatarURL = nil
		} else {
			p.AvatarURL = &avatarURL
		}
		p.UpdatedAt = time.Now()
		return p, nil
	}
	return nil, domain.ErrProfileNotFound
}

// AddProfile adds a profile to the mock repository (helper for tests)
func (m *MockProfileRepository) AddProfile(p *domain.Profile) *domain.Profile {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.Profiles[p.ID] = p
	m.ByUserID[p.UserID] = p
	return p
}
