package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Goal is a savings goal. Only TargetAmount and CurrentAmount are
// authoritative; remaining amount and progress are always recomputed so a
// stale display cache can never diverge from the stored amounts.
type Goal struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	TargetDate    time.Time       `json:"targetDate"`
	Description   *string         `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// RemainingAmount returns how much is still needed to reach the target.
func (g *Goal) RemainingAmount() decimal.Decimal {
	return g.TargetAmount.Sub(g.CurrentAmount)
}

// Progress returns completion as a percentage, 0 when the target is zero.
func (g *Goal) Progress() decimal.Decimal {
	if g.TargetAmount.IsZero() {
		return decimal.Zero
	}
	return g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100))
}

type GoalRepository interface {
	Create(goal *Goal) (*Goal, error)
	GetByID(userID, id uuid.UUID) (*Goal, error)
	ListByUser(userID uuid.UUID) ([]*Goal, error)
	Update(goal *Goal) (*Goal, error)
	Delete(userID, id uuid.UUID) error
}
