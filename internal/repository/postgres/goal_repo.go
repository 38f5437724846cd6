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

// GoalRepository implements domain.GoalRepository using PostgreSQL
type GoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{pool: pool}
}

const goalColumns = `id, user_id, name, category, target_amount, current_amount, target_date, description, created_at, updated_at`

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var (
		g             domain.Goal
		targetAmount  pgtype.Numeric
		currentAmount pgtype.Numeric
		targetDate    pgtype.Date
		description   pgtype.Text
	)
	if err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.Category, &targetAmount, &currentAmount,
		&targetDate, &description, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	g.TargetAmount = pgNumericToDecimal(targetAmount)
	g.CurrentAmount = pgNumericToDecimal(currentAmount)
	g.TargetDate = pgDateToTime(targetDate)
	g.Description = pgTextToPtr(description)
	return &g, nil
}

// Create creates a new goal
func (r *GoalRepository) Create(goal *domain.Goal) (*domain.Goal, error) {
	ctx := context.Background()
	targetAmount, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}
	currentAmount, err := decimalToPgNumeric(goal.CurrentAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid current amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO goals (id, user_id, name, category, target_amount, current_amount, target_date, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+goalColumns,
		uuid.New(), goal.UserID, goal.Name, goal.Category, targetAmount, currentAmount,
		timeToPgDate(goal.TargetDate), ptrToPgText(goal.Description))
	return scanGoal(row)
}

// GetByID retrieves a goal by ID within a user's scope
func (r *GoalRepository) GetByID(userID, id uuid.UUID) (*domain.Goal, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 AND id = $2`, userID, id)
	goal, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

// ListByUser retrieves all goals for a user in creation order
func (r *GoalRepository) ListByUser(userID uuid.UUID) ([]*domain.Goal, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// Update updates an existing goal
func (r *GoalRepository) Update(goal *domain.Goal) (*domain.Goal, error) {
	ctx := context.Background()
	targetAmount, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}
	currentAmount, err := decimalToPgNumeric(goal.CurrentAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid current amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE goals SET
		   name = $3, category = $4, target_amount = $5, current_amount = $6,
		   target_date = $7, description = $8, updated_at = now()
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+goalColumns,
		goal.UserID, goal.ID, goal.Name, goal.Category, targetAmount, currentAmount,
		timeToPgDate(goal.TargetDate), ptrToPgText(goal.Description))
	updated, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete permanently removes a goal
func (r *GoalRepository) Delete(userID, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM goals WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}
