package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated   EventType = "created"
	EventTypeUpdated   EventType = "updated"
	EventTypeDeleted   EventType = "deleted"
	EventTypeAllocated EventType = "allocated"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeGoal        EntityType = "goal"
	EntityTypeGoals       EntityType = "goals"
	EntityTypeEvent       EntityType = "event"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "transaction.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "transaction"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionCreated creates a transaction.created event
func TransactionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
}

// TransactionUpdated creates a transaction.updated event
func TransactionUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTransaction, payload)
}

// TransactionDeleted creates a transaction.deleted event
func TransactionDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, payload)
}

// GoalCreated creates a goal.created event
func GoalCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeGoal, payload)
}

// GoalUpdated creates a goal.updated event
func GoalUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeGoal, payload)
}

// GoalDeleted creates a goal.deleted event
func GoalDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeGoal, payload)
}

// GoalsAllocated creates a goals.allocated event carrying the run result
func GoalsAllocated(payload interface{}) Event {
	return NewEvent(EventTypeAllocated, EntityTypeGoals, payload)
}

// CalendarEventCreated creates an event.created event
func CalendarEventCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeEvent, payload)
}

// CalendarEventUpdated creates an event.updated event
func CalendarEventUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeEvent, payload)
}

// CalendarEventDeleted creates an event.deleted event
func CalendarEventDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeEvent, payload)
}
