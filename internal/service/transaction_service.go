package service

import (
	"strings"
	"time"

	"github.com/fintrack-app/fintrack-backend/internal/domain"
	"github.com/fintrack-app/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles income/expense record business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	publisher       websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, publisher websocket.EventPublisher) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		publisher:       publisher,
	}
}

// CreateTransactionInput holds the input for creating a record
type CreateTransactionInput struct {
	Name          string
	Category      string
	Amount        decimal.Decimal
	Type          domain.TransactionType
	Date          *time.Time
	PaymentMethod *string
	Notes         *string
}

// UpdateTransactionInput holds the input for updating a record. Nil fields
// keep their current value.
type UpdateTransactionInput struct {
	Name          *string
	Category      *string
	Amount        *decimal.Decimal
	Date          *time.Time
	PaymentMethod *string
	Notes         *string
}

// CreateTransaction creates a new income or expense record with validation
func (s *TransactionService) CreateTransaction(userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}

	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	if !input.Type.Valid() {
		return nil, domain.ErrInvalidType
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if input.Date != nil {
		date = *input.Date
	}

	notes, err := normalizeNotes(input.Notes)
	if err != nil {
		return nil, err
	}

	transaction := &domain.Transaction{
		UserID:        userID,
		Name:          name,
		Category:      category,
		Amount:        input.Amount,
		Type:          input.Type,
		Date:          date,
		PaymentMethod: input.PaymentMethod,
		Notes:         notes,
	}

	created, err := s.transactionRepo.Create(transaction)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.TransactionCreated(created))
	return created, nil
}

// GetTransaction retrieves a single record owned by the user
func (s *TransactionService) GetTransaction(userID, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(userID, id)
}

// ListTransactions retrieves the user's records with optional filters
func (s *TransactionService) ListTransactions(userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	return s.transactionRepo.ListByUser(userID, filters)
}

// UpdateTransaction applies a partial update to an existing record
func (s *TransactionService) UpdateTransaction(userID, id uuid.UUID, input UpdateTransactionInput) (*domain.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.ErrNameRequired
		}
		if len(name) > domain.MaxNameLength {
			return nil, domain.ErrNameTooLong
		}
		transaction.Name = name
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			return nil, domain.ErrCategoryRequired
		}
		transaction.Category = category
	}
	if input.Amount != nil {
		if input.Amount.IsNegative() {
			return nil, domain.ErrInvalidAmount
		}
		transaction.Amount = *input.Amount
	}
	if input.Date != nil {
		transaction.Date = *input.Date
	}
	if input.PaymentMethod != nil {
		transaction.PaymentMethod = input.PaymentMethod
	}
	if input.Notes != nil {
		notes, err := normalizeNotes(input.Notes)
		if err != nil {
			return nil, err
		}
		transaction.Notes = notes
	}

	updated, err := s.transactionRepo.Update(transaction)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction removes a record owned by the user
func (s *TransactionService) DeleteTransaction(userID, id uuid.UUID) error {
	transaction, err := s.transactionRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if err := s.transactionRepo.Delete(userID, id); err != nil {
		return err
	}

	s.publisher.Publish(userID, websocket.TransactionDeleted(transaction))
	return nil
}

// SetReceiptPath stores (or clears) the receipt object path on a record
func (s *TransactionService) SetReceiptPath(userID, id uuid.UUID, path *string) (*domain.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	transaction.ReceiptPath = path
	return s.transactionRepo.Update(transaction)
}

func normalizeNotes(notes *string) (*string, error) {
	if notes == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > domain.MaxNotesLength {
		return nil, domain.ErrNotesTooLong
	}
	return &trimmed, nil
}
