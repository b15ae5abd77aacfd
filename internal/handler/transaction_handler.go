package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/middleware"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService  *service.TransactionService
	archiveRecalculates bool
}

// NewTransactionHandler creates a new TransactionHandler.
// archiveRecalculates is the default for whether archive maintenance
// recalculates the touched budgets; the request can override it.
func NewTransactionHandler(transactionService *service.TransactionService, archiveRecalculates bool) *TransactionHandler {
	return &TransactionHandler{
		transactionService:  transactionService,
		archiveRecalculates: archiveRecalculates,
	}
}

// TransactionRequest represents the create/update transaction request body
type TransactionRequest struct {
	Amount        string  `json:"amount"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Type          string  `json:"type"`
	Date          string  `json:"date"`
	IsRecurring   bool    `json:"isRecurring"`
	RecurringType *string `json:"recurringType,omitempty"`
	FromCategory  *string `json:"fromCategory,omitempty"`
	ToCategory    *string `json:"toCategory,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID            string  `json:"id"`
	Amount        string  `json:"amount"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Type          string  `json:"type"`
	Date          string  `json:"date"`
	Period        string  `json:"period"`
	Archived      bool    `json:"archived"`
	IsRecurring   bool    `json:"isRecurring"`
	RecurringType *string `json:"recurringType,omitempty"`
	FromCategory  *string `json:"fromCategory,omitempty"`
	ToCategory    *string `json:"toCategory,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// toTransactionResponse converts a domain transaction to its API shape
func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	var recurringType *string
	if t.RecurringType != nil {
		rt := string(*t.RecurringType)
		recurringType = &rt
	}

	return TransactionResponse{
		ID:            t.ID.String(),
		Amount:        t.Amount.StringFixed(2),
		Description:   t.Description,
		Category:      t.Category,
		Type:          string(t.Type),
		Date:          t.Date.Format("2006-01-02"),
		Period:        t.Period,
		Archived:      t.Archived,
		IsRecurring:   t.IsRecurring,
		RecurringType: recurringType,
		FromCategory:  t.FromCategory,
		ToCategory:    t.ToCategory,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     t.UpdatedAt.Format(time.RFC3339),
	}
}

// toTransactionResponses converts a slice of domain transactions
func toTransactionResponses(transactions []*domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		responses = append(responses, toTransactionResponse(t))
	}
	return responses
}

// parseTransactionRequest converts a request body into a service input.
// Returns the field errors for unparseable values.
func parseTransactionRequest(req TransactionRequest) (service.CreateTransactionInput, []ValidationError) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return service.CreateTransactionInput{}, []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		}
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return service.CreateTransactionInput{}, []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		}
	}

	var recurringType *domain.RecurringType
	if req.RecurringType != nil && *req.RecurringType != "" {
		rt := domain.RecurringType(*req.RecurringType)
		recurringType = &rt
	}

	return service.CreateTransactionInput{
		Amount:        amount,
		Description:   req.Description,
		Category:      req.Category,
		Type:          domain.TransactionType(req.Type),
		Date:          date,
		IsRecurring:   req.IsRecurring,
		RecurringType: recurringType,
		FromCategory:  req.FromCategory,
		ToCategory:    req.ToCategory,
	}, nil
}

// transactionValidationResponse maps domain validation errors to responses.
// Returns nil when the error is not a validation error.
func transactionValidationResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be between 0.01 and 9,999,999.99"},
		})
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description must be 50 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidTransactionType):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be one of: income, expense, transfer"},
		})
	case errors.Is(err, domain.ErrInvalidRecurringType):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "recurringType", Message: "Recurring type must be one of: monthly, weekly, yearly"},
		})
	case errors.Is(err, domain.ErrTransferCategories):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "fromCategory", Message: "Transfers require a from or to category"},
		})
	}
	return nil
}

// CreateTransaction handles POST /transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, fieldErrs := parseTransactionRequest(req)
	if fieldErrs != nil {
		return NewValidationError(c, "Validation failed", fieldErrs)
	}

	transaction, err := h.transactionService.CreateTransaction(profileID, input)
	if err != nil {
		if resp := transactionValidationResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().
		Str("profile_id", profileID.String()).
		Str("transaction_id", transaction.ID.String()).
		Str("period", transaction.Period).
		Msg("Transaction created")

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions handles GET /transactions with optional filters
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	filters := &domain.TransactionFilters{}

	if startDateStr := c.QueryParam("startDate"); startDateStr != "" {
		parsed, err := time.Parse("2006-01-02", startDateStr)
		if err != nil {
			return NewValidationError(c, "Invalid startDate format (use YYYY-MM-DD)", nil)
		}
		filters.StartDate = &parsed
	}

	if endDateStr := c.QueryParam("endDate"); endDateStr != "" {
		parsed, err := time.Parse("2006-01-02", endDateStr)
		if err != nil {
			return NewValidationError(c, "Invalid endDate format (use YYYY-MM-DD)", nil)
		}
		filters.EndDate = &parsed
	}

	if typeStr := c.QueryParam("type"); typeStr != "" {
		transactionType := domain.TransactionType(typeStr)
		if !domain.ValidTransactionType(transactionType) {
			return NewValidationError(c, "Invalid type (must be 'income', 'expense' or 'transfer')", nil)
		}
		filters.Type = &transactionType
	}

	if category := c.QueryParam("category"); category != "" {
		filters.Category = &category
	}

	if period := c.QueryParam("period"); period != "" {
		filters.Period = &period
	}

	if c.QueryParam("includeArchived") == "true" {
		filters.IncludeArchived = true
	}

	transactions, err := h.transactionService.GetTransactions(profileID, filters)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to get transactions")
		return NewInternalError(c, "Failed to get transactions")
	}

	return c.JSON(http.StatusOK, toTransactionResponses(transactions))
}

// GetArchivedTransactions handles GET /transactions/archived
func (h *TransactionHandler) GetArchivedTransactions(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	transactions, err := h.transactionService.GetArchivedTransactions(profileID)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to get archived transactions")
		return NewInternalError(c, "Failed to get archived transactions")
	}

	return c.JSON(http.StatusOK, toTransactionResponses(transactions))
}

// UpdateTransaction handles PUT /transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, fieldErrs := parseTransactionRequest(req)
	if fieldErrs != nil {
		return NewValidationError(c, "Validation failed", fieldErrs)
	}

	transaction, err := h.transactionService.UpdateTransaction(profileID, id, input)
	if err != nil {
		if resp := transactionValidationResponse(c, err); resp != nil {
			return resp
		}
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Str("transaction_id", id.String()).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction handles DELETE /transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(profileID, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Str("transaction_id", id.String()).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	return c.NoContent(http.StatusNoContent)
}

// BulkTransactionsRequest represents the bulk insert request body
type BulkTransactionsRequest struct {
	Transactions []TransactionRequest `json:"transactions"`
}

// AddBulkTransactions handles POST /transactions/bulk
func (h *TransactionHandler) AddBulkTransactions(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	var req BulkTransactionsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if len(req.Transactions) == 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "transactions", Message: "At least one transaction is required"},
		})
	}

	inputs := make([]service.CreateTransactionInput, 0, len(req.Transactions))
	for _, r := range req.Transactions {
		input, fieldErrs := parseTransactionRequest(r)
		if fieldErrs != nil {
			return NewValidationError(c, "Validation failed", fieldErrs)
		}
		inputs = append(inputs, input)
	}

	result, err := h.transactionService.AddBulkTransactions(profileID, inputs)
	if err != nil {
		if resp := transactionValidationResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Bulk insert failed")
		return NewInternalError(c, "Failed to insert transactions")
	}

	log.Info().
		Str("profile_id", profileID.String()).
		Int("success", result.Success).
		Int("failed", result.Failed).
		Msg("Bulk transactions processed")

	return c.JSON(http.StatusOK, result)
}

// ArchiveResponse represents the archive maintenance response
type ArchiveResponse struct {
	Archived int `json:"archived"`
}

// ArchiveOldTransactions handles POST /transactions/archive
func (h *TransactionHandler) ArchiveOldTransactions(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	recalculate := h.archiveRecalculates
	if q := c.QueryParam("recalculate"); q != "" {
		recalculate = q == "true"
	}

	count, err := h.transactionService.ArchiveOldTransactions(profileID, recalculate)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Archive maintenance failed")
		return NewInternalError(c, "Failed to archive transactions")
	}

	log.Info().
		Str("profile_id", profileID.String()).
		Int("archived", count).
		Msg("Old transactions archived")

	return c.JSON(http.StatusOK, ArchiveResponse{Archived: count})
}

// GetTransaction handles GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransaction(profileID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Str("transaction_id", id.String()).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}
