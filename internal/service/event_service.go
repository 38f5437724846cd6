package service

import (
	"strings"
	"time"

	"github.com/fintrack-app/fintrack-backend/internal/domain"
	"github.com/fintrack-app/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventService handles calendar event business logic
type EventService struct {
	eventRepo domain.EventRepository
	publisher websocket.EventPublisher
}

// NewEventService creates a new EventService
func NewEventService(eventRepo domain.EventRepository, publisher websocket.EventPublisher) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		publisher: publisher,
	}
}

// CreateEventInput holds the input for creating a calendar event
type CreateEventInput struct {
	Title    string
	Type     domain.TransactionType
	Category string
	Amount   decimal.Decimal
	Date     time.Time
	Notes    *string
}

// UpdateEventInput holds the input for updating a calendar event
type UpdateEventInput struct {
	Title    *string
	Type     *domain.TransactionType
	Category *string
	Amount   *decimal.Decimal
	Date     *time.Time
	Notes    *string
}

// CreateEvent creates a new calendar event with validation
func (s *EventService) CreateEvent(userID uuid.UUID, input CreateEventInput) (*domain.Event, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrNameRequired
	}
	if len(title) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	if !input.Type.Valid() {
		return nil, domain.ErrInvalidType
	}

	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	notes, err := normalizeNotes(input.Notes)
	if err != nil {
		return nil, err
	}

	event := &domain.Event{
		UserID:   userID,
		Title:    title,
		Type:     input.Type,
		Category: strings.TrimSpace(input.Category),
		Amount:   input.Amount,
		Date:     input.Date,
		Notes:    notes,
	}

	created, err := s.eventRepo.Create(event)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.CalendarEventCreated(created))
	return created, nil
}

// GetEvent retrieves a single event owned by the user
func (s *EventService) GetEvent(userID, id uuid.UUID) (*domain.Event, error) {
	return s.eventRepo.GetByID(userID, id)
}

// ListEvents retrieves the user's events with optional filters
func (s *EventService) ListEvents(userID uuid.UUID, filters *domain.EventFilters) ([]*domain.Event, error) {
	return s.eventRepo.ListByUser(userID, filters)
}

// UpdateEvent applies a partial update to an existing event
func (s *EventService) UpdateEvent(userID, id uuid.UUID, input UpdateEventInput) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, domain.ErrNameRequired
		}
		if len(title) > domain.MaxNameLength {
			return nil, domain.ErrNameTooLong
		}
		event.Title = title
	}
	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, domain.ErrInvalidType
		}
		event.Type = *input.Type
	}
	if input.Category != nil {
		event.Category = strings.TrimSpace(*input.Category)
	}
	if input.Amount != nil {
		if input.Amount.IsNegative() {
			return nil, domain.ErrInvalidAmount
		}
		event.Amount = *input.Amount
	}
	if input.Date != nil {
		event.Date = *input.Date
	}
	if input.Notes != nil {
		notes, err := normalizeNotes(input.Notes)
		if err != nil {
			return nil, err
		}
		event.Notes = notes
	}

	updated, err := s.eventRepo.Update(event)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.CalendarEventUpdated(updated))
	return updated, nil
}

// DeleteEvent removes an event owned by the user
func (s *EventService) DeleteEvent(userID, id uuid.UUID) error {
	event, err := s.eventRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(userID, id); err != nil {
		return err
	}

	s.publisher.Publish(userID, websocket.CalendarEventDeleted(event))
	return nil
}
