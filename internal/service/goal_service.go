package service

import (
	"strings"
	"time"

	"github.com/fintrack-app/fintrack-backend/internal/domain"
	"github.com/fintrack-app/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalService handles savings goal business logic
type GoalService struct {
	goalRepo  domain.GoalRepository
	publisher websocket.EventPublisher
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo domain.GoalRepository, publisher websocket.EventPublisher) *GoalService {
	return &GoalService{
		goalRepo:  goalRepo,
		publisher: publisher,
	}
}

// CreateGoalInput holds the input for creating a goal
type CreateGoalInput struct {
	Name          string
	Category      string
	TargetAmount  decimal.Decimal
	CurrentAmount *decimal.Decimal
	TargetDate    time.Time
	Description   *string
}

// UpdateGoalInput holds the input for updating a goal. Nil fields keep
// their current value.
type UpdateGoalInput struct {
	Name          *string
	Category      *string
	TargetAmount  *decimal.Decimal
	CurrentAmount *decimal.Decimal
	TargetDate    *time.Time
	Description   *string
}

// CreateGoal creates a new savings goal with validation
func (s *GoalService) CreateGoal(userID uuid.UUID, input CreateGoalInput) (*domain.Goal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	if input.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	current := decimal.Zero
	if input.CurrentAmount != nil {
		if input.CurrentAmount.IsNegative() || input.CurrentAmount.GreaterThan(input.TargetAmount) {
			return nil, domain.ErrInvalidAmount
		}
		current = *input.CurrentAmount
	}

	goal := &domain.Goal{
		UserID:        userID,
		Name:          name,
		Category:      strings.TrimSpace(input.Category),
		TargetAmount:  input.TargetAmount,
		CurrentAmount: current,
		TargetDate:    input.TargetDate,
		Description:   input.Description,
	}

	created, err := s.goalRepo.Create(goal)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.GoalCreated(created))
	return created, nil
}

// GetGoal retrieves a single goal owned by the user
func (s *GoalService) GetGoal(userID, id uuid.UUID) (*domain.Goal, error) {
	return s.goalRepo.GetByID(userID, id)
}

// ListGoals retrieves all goals for a user
func (s *GoalService) ListGoals(userID uuid.UUID) ([]*domain.Goal, error) {
	return s.goalRepo.ListByUser(userID)
}

// UpdateGoal applies a partial update to an existing goal
func (s *GoalService) UpdateGoal(userID, id uuid.UUID, input UpdateGoalInput) (*domain.Goal, error) {
	goal, err := s.goalRepo.GetByID(userID, id)
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
		goal.Name = name
	}
	if input.Category != nil {
		goal.Category = strings.TrimSpace(*input.Category)
	}
	if input.TargetAmount != nil {
		if input.TargetAmount.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidAmount
		}
		goal.TargetAmount = *input.TargetAmount
	}
	if input.CurrentAmount != nil {
		if input.CurrentAmount.IsNegative() {
			return nil, domain.ErrInvalidAmount
		}
		goal.CurrentAmount = *input.CurrentAmount
	}
	if input.TargetDate != nil {
		goal.TargetDate = *input.TargetDate
	}
	if input.Description != nil {
		goal.Description = input.Description
	}

	// The allocation engine enforces current <= target; manual edits get
	// the same guard here.
	if goal.CurrentAmount.GreaterThan(goal.TargetAmount) {
		return nil, domain.ErrInvalidAmount
	}

	updated, err := s.goalRepo.Update(goal)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.GoalUpdated(updated))
	return updated, nil
}

// DeleteGoal removes a goal owned by the user
func (s *GoalService) DeleteGoal(userID, id uuid.UUID) error {
	goal, err := s.goalRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if err := s.goalRepo.Delete(userID, id); err != nil {
		return err
	}

	s.publisher.Publish(userID, websocket.GoalDeleted(goal))
	return nil
}
