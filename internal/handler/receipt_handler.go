package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/fintrack-app/fintrack-backend/internal/domain"
	"github.com/fintrack-app/fintrack-backend/internal/middleware"
	"github.com/fintrack-app/fintrack-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReceiptHandler handles transaction receipt HTTP requests
type ReceiptHandler struct {
	receiptService     *service.ReceiptService
	transactionService *service.TransactionService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *service.ReceiptService, transactionService *service.TransactionService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService:     receiptService,
		transactionService: transactionService,
	}
}

// ReceiptURLResponse carries a short-lived download URL for a receipt
type ReceiptURLResponse struct {
	URL string `json:"url"`
}

// UploadReceipt handles POST /api/v1/transactions/:id/receipt
func (h *ReceiptHandler) UploadReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	// Skip processing entirely when storage isn't configured
	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt uploads are disabled (storage not configured)")
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransaction(userID, transactionID)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Msg("Failed to load transaction for receipt upload")
		return NewInternalError(c, "Failed to load transaction")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	ctx := c.Request().Context()

	path, err := h.receiptService.Upload(ctx, userID, transactionID, data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReceiptTooLarge):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "File too large. Maximum size is 5MB"},
			})
		case errors.Is(err, service.ErrInvalidReceiptFormat):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid format. Supported: JPEG, PNG, WebP"},
			})
		case errors.Is(err, service.ErrReceiptTooSmall):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Image too small. Minimum 50x50 pixels"},
			})
		case errors.Is(err, service.ErrInvalidReceiptData):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid image data"},
			})
		}
		log.Error().Err(err).Msg("Failed to upload receipt")
		return NewInternalError(c, "Failed to upload receipt")
	}

	// Replacing an existing receipt removes the previous object
	if transaction.ReceiptPath != nil {
		if err := h.receiptService.Delete(ctx, *transaction.ReceiptPath); err != nil {
			log.Warn().Err(err).Str("path", *transaction.ReceiptPath).Msg("Failed to delete previous receipt")
		}
	}

	updated, err := h.transactionService.SetReceiptPath(userID, transactionID, &path)
	if err != nil {
		log.Error().Err(err).Msg("Failed to attach receipt to transaction")
		return NewInternalError(c, "Failed to attach receipt")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(updated))
}

// GetReceiptURL handles GET /api/v1/transactions/:id/receipt
func (h *ReceiptHandler) GetReceiptURL(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt storage is disabled (storage not configured)")
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransaction(userID, transactionID)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Msg("Failed to load transaction for receipt")
		return NewInternalError(c, "Failed to load transaction")
	}

	if transaction.ReceiptPath == nil {
		return NewNotFoundError(c, "Transaction has no receipt")
	}

	url, err := h.receiptService.URL(c.Request().Context(), *transaction.ReceiptPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate receipt URL")
		return NewInternalError(c, "Failed to generate receipt URL")
	}

	return c.JSON(http.StatusOK, ReceiptURLResponse{URL: url})
}

// DeleteReceipt handles DELETE /api/v1/transactions/:id/receipt
func (h *ReceiptHandler) DeleteReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt storage is disabled (storage not configured)")
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransaction(userID, transactionID)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Msg("Failed to load transaction for receipt delete")
		return NewInternalError(c, "Failed to load transaction")
	}

	if transaction.ReceiptPath == nil {
		return NewNotFoundError(c, "Transaction has no receipt")
	}

	if err := h.receiptService.Delete(c.Request().Context(), *transaction.ReceiptPath); err != nil {
		log.Error().Err(err).Msg("Failed to delete receipt object")
		return NewInternalError(c, "Failed to delete receipt")
	}

	if _, err := h.transactionService.SetReceiptPath(userID, transactionID, nil); err != nil {
		log.Error().Err(err).Msg("Failed to detach receipt from transaction")
		return NewInternalError(c, "Failed to detach receipt")
	}

	return c.NoContent(http.StatusNoContent)
}
