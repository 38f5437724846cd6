package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/fintrack-app/fintrack-backend/internal/domain"
	"github.com/fintrack-app/fintrack-backend/internal/middleware"
	"github.com/fintrack-app/fintrack-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles income/expense record HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Amount        string  `json:"amount"`
	Type          string  `json:"type"`
	Date          *string `json:"date,omitempty"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// UpdateTransactionRequest represents the update transaction request body
type UpdateTransactionRequest struct {
	Name          *string `json:"name,omitempty"`
	Category      *string `json:"category,omitempty"`
	Amount        *string `json:"amount,omitempty"`
	Date          *string `json:"date,omitempty"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Amount        string  `json:"amount"`
	Type          string  `json:"type"`
	Date          string  `json:"date"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	HasReceipt    bool    `json:"hasReceipt"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID.String(),
		UserID:        t.UserID.String(),
		Name:          t.Name,
		Category:      t.Category,
		Amount:        t.Amount.String(),
		Type:          string(t.Type),
		Date:          t.Date.Format("2006-01-02"),
		PaymentMethod: t.PaymentMethod,
		Notes:         t.Notes,
		HasReceipt:    t.ReceiptPath != nil,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     t.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Create a new income or expense record
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction creation request"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	date, err := parseOptionalDate(req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	input := service.CreateTransactionInput{
		Name:          req.Name,
		Category:      req.Category,
		Amount:        amount,
		Type:          domain.TransactionType(req.Type),
		Date:          date,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}

	transaction, err := h.transactionService.CreateTransaction(userID, input)
	if err != nil {
		if resp := mapRecordValidationError(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions godoc
// @Summary List transactions
// @Description List the user's income and expense records with optional filters
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param type query string false "Filter by type (income|expense)"
// @Param category query string false "Filter by category"
// @Param startDate query string false "Filter from date (YYYY-MM-DD)"
// @Param endDate query string false "Filter to date (YYYY-MM-DD)"
// @Success 200 {array} TransactionResponse
// @Failure 401 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters := &domain.TransactionFilters{}

	if t := c.QueryParam("type"); t != "" {
		transactionType := domain.TransactionType(t)
		if !transactionType.Valid() {
			return NewValidationError(c, "Invalid type filter", []ValidationError{
				{Field: "type", Message: "Must be one of: income, expense"},
			})
		}
		filters.Type = &transactionType
	}
	if cat := c.QueryParam("category"); cat != "" {
		filters.Category = &cat
	}

	var err error
	if filters.StartDate, err = parseDateParam(c.QueryParam("startDate")); err != nil {
		return NewValidationError(c, "Invalid startDate", []ValidationError{
			{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	if filters.EndDate, err = parseDateParam(c.QueryParam("endDate")); err != nil {
		return NewValidationError(c, "Invalid endDate", []ValidationError{
			{Field: "endDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	transactions, err := h.transactionService.ListTransactions(userID, filters)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}

	responses := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		responses[i] = toTransactionResponse(t)
	}
	return c.JSON(http.StatusOK, responses)
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param request body UpdateTransactionRequest true "Transaction update request"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateTransactionInput{
		Name:          req.Name,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}

	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		input.Amount = &amount
	}
	if input.Date, err = parseOptionalDate(req.Date); err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, id, input)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if resp := mapRecordValidationError(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(userID, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	return c.NoContent(http.StatusNoContent)
}

// mapRecordValidationError translates shared record validation errors into
// problem responses; returns nil for errors it does not recognize.
func mapRecordValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrCategoryRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category is required"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be non-negative"},
		})
	case errors.Is(err, domain.ErrInvalidType):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be one of: income, expense"},
		})
	case errors.Is(err, domain.ErrNotesTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "notes", Message: "Notes must be 1000 characters or less"},
		})
	}
	return nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseDateParam(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
