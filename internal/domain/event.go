package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is a scheduled income or expense shown on the calendar. It shares
// the transaction shape but carries a title instead of a name and is never
// part of the analytics totals until it is converted into a transaction.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Title     string          `json:"title"`
	Type      TransactionType `json:"type"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Notes     *string         `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type EventFilters struct {
	Type      *TransactionType
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
}

type EventRepository interface {
	Create(event *Event) (*Event, error)
	GetByID(userID, id uuid.UUID) (*Event, error)
	ListByUser(userID uuid.UUID, filters *EventFilters) ([]*Event, error)
	Update(event *Event) (*Event, error)
	Delete(userID, id uuid.UUID) error
}
