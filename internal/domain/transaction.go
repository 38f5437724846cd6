package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single income or expense record. Amounts are always
// non-negative; the type discriminator decides which side of the ledger
// the record lands on.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	Date          time.Time       `json:"date"`
	PaymentMethod *string         `json:"paymentMethod,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	ReceiptPath   *string         `json:"receiptPath,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type TransactionFilters struct {
	Type      *TransactionType
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
}

const (
	MaxNameLength  = 255
	MaxNotesLength = 1000
)

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(userID, id uuid.UUID) (*Transaction, error)
	ListByUser(userID uuid.UUID, filters *TransactionFilters) ([]*Transaction, error)
	Update(transaction *Transaction) (*Transaction, error)
	Delete(userID, id uuid.UUID) error
}
