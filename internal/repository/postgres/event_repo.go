package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fintrack-app/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository implements domain.EventRepository using PostgreSQL
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `id, user_id, title, type, category, amount, date, notes, created_at, updated_at`

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var (
		e      domain.Event
		amount pgtype.Numeric
		date   pgtype.Date
		notes  pgtype.Text
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Type, &e.Category, &amount, &date,
		&notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Amount = pgNumericToDecimal(amount)
	e.Date = pgDateToTime(date)
	e.Notes = pgTextToPtr(notes)
	return &e, nil
}

// Create creates a new calendar event
func (r *EventRepository) Create(event *domain.Event) (*domain.Event, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(event.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO events (id, user_id, title, type, category, amount, date, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+eventColumns,
		uuid.New(), event.UserID, event.Title, string(event.Type), event.Category, amount,
		timeToPgDate(event.Date), ptrToPgText(event.Notes))
	return scanEvent(row)
}

// GetByID retrieves an event by ID within a user's scope
func (r *EventRepository) GetByID(userID, id uuid.UUID) (*domain.Event, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE user_id = $1 AND id = $2`, userID, id)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// ListByUser retrieves the user's events in date order, honoring optional
// filters.
func (r *EventRepository) ListByUser(userID uuid.UUID, filters *domain.EventFilters) ([]*domain.Event, error) {
	ctx := context.Background()

	query := `SELECT ` + eventColumns + ` FROM events WHERE user_id = $1`
	args := []any{userID}

	if filters != nil {
		if filters.Type != nil {
			args = append(args, string(*filters.Type))
			query += fmt.Sprintf(" AND type = $%d", len(args))
		}
		if filters.Category != nil {
			args = append(args, *filters.Category)
			query += fmt.Sprintf(" AND category = $%d", len(args))
		}
		if filters.StartDate != nil {
			args = append(args, timeToPgDate(*filters.StartDate))
			query += fmt.Sprintf(" AND date >= $%d", len(args))
		}
		if filters.EndDate != nil {
			args = append(args, timeToPgDate(*filters.EndDate))
			query += fmt.Sprintf(" AND date <= $%d", len(args))
		}
	}
	query += " ORDER BY date ASC, created_at ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// Update updates an existing event
func (r *EventRepository) Update(event *domain.Event) (*domain.Event, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(event.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE events SET
		   title = $3, type = $4, category = $5, amount = $6, date = $7, notes = $8, updated_at = now()
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+eventColumns,
		event.UserID, event.ID, event.Title, string(event.Type), event.Category, amount,
		timeToPgDate(event.Date), ptrToPgText(event.Notes))
	updated, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete permanently removes an event
func (r *EventRepository) Delete(userID, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM events WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
