package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternalError       = errors.New("internal error")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrSavingsNotFound     = errors.New("savings not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSettingsNotFound    = errors.New("settings not found")
	ErrBudgetExists        = errors.New("budget already exists for category and period")
	ErrSavingsExists       = errors.New("savings already exists for category")

	ErrInvalidAmount          = errors.New("amount must be between 0.01 and 9,999,999.99")
	ErrDescriptionTooLong     = errors.New("description exceeds maximum length")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidRecurringType   = errors.New("invalid recurring type")
	ErrTransferCategories     = errors.New("transfers require from and to categories")
	ErrInvalidPeriodStartDay  = errors.New("period start day must be between 1 and 31")
	ErrInvalidCategoryType    = errors.New("invalid category type")
	ErrNameRequired           = errors.New("name is required")
	ErrNameTooLong            = errors.New("name exceeds maximum length")
	ErrInvalidPeriod          = errors.New("period must be in YYYY-MM format")
)

// Validation constants
const (
	MaxDescriptionLength  = 50
	MaxCategoryNameLength = 50
	DefaultPeriodStartDay = 1
	BulkInsertBatchSize   = 50
)
