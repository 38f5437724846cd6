package service

import (
	"sort"

	"github.com/fintrack-app/fintrack-backend/internal/domain"
	"github.com/fintrack-app/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AllocationService applies the 50/30/20 budgeting rule: it computes how
// much of a user's income goes to goal funding and distributes that share
// across the user's goals, then persists the new per-goal amounts one
// update at a time. Persistence is deliberately best effort: one goal's
// update failing does not stop or roll back the others.
type AllocationService struct {
	goalRepo        domain.GoalRepository
	transactionRepo domain.TransactionRepository
	publisher       websocket.EventPublisher
}

// NewAllocationService creates a new AllocationService. publisher may be a
// NoOpPublisher when websocket push is disabled.
func NewAllocationService(goalRepo domain.GoalRepository, transactionRepo domain.TransactionRepository, publisher websocket.EventPublisher) *AllocationService {
	return &AllocationService{
		goalRepo:        goalRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
	}
}

// PreviewAllocation computes the allocation plan for a user without
// touching any goal. Running it repeatedly over unchanged data yields an
// identical plan.
func (s *AllocationService) PreviewAllocation(userID uuid.UUID) (*domain.AllocationPlan, error) {
	goals, err := s.goalRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	totalIncome, err := s.totalIncome(userID)
	if err != nil {
		return nil, err
	}

	return BuildAllocationPlan(totalIncome, goals)
}

// AllocateToGoals computes the plan and applies it, issuing one update per
// goal in sequence. The result reports how many updates succeeded; if
// every update fails the whole run is reported as an error.
func (s *AllocationService) AllocateToGoals(userID uuid.UUID) (*domain.AllocationResult, error) {
	goals, err := s.goalRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	totalIncome, err := s.totalIncome(userID)
	if err != nil {
		return nil, err
	}

	plan, err := BuildAllocationPlan(totalIncome, goals)
	if err != nil {
		return nil, err
	}

	goalsByID := make(map[uuid.UUID]*domain.Goal, len(goals))
	for _, g := range goals {
		goalsByID[g.ID] = g
	}

	result := &domain.AllocationResult{
		Plan:       plan,
		TotalCount: len(plan.Entries),
	}

	for _, entry := range plan.Entries {
		goal := goalsByID[entry.GoalID]
		goal.CurrentAmount = entry.NewCurrent

		if _, err := s.goalRepo.Update(goal); err != nil {
			log.Warn().
				Err(err).
				Str("user_id", userID.String()).
				Str("goal_id", entry.GoalID.String()).
				Msg("Goal update failed during allocation")
			result.Failures = append(result.Failures, entry.GoalID)
			continue
		}
		result.UpdatedCount++
	}

	if result.TotalCount > 0 && result.UpdatedCount == 0 {
		return result, domain.ErrAllocationFailed
	}

	if result.UpdatedCount > 0 {
		s.publisher.Publish(userID, websocket.GoalsAllocated(result))
	}

	return result, nil
}

// totalIncome sums every income record the user has. Amounts are stored
// non-negative, so the sum is the gross income the split is based on.
func (s *AllocationService) totalIncome(userID uuid.UUID) (decimal.Decimal, error) {
	incomeType := domain.TransactionTypeIncome
	records, err := s.transactionRepo.ListByUser(userID, &domain.TransactionFilters{Type: &incomeType})
	if err != nil {
		return decimal.Zero, err
	}
	return sumAmounts(records), nil
}

// SplitIncome divides income per the 50/30/20 rule.
func SplitIncome(totalIncome decimal.Decimal) domain.BudgetSplit {
	return domain.BudgetSplit{
		ExpensesShare: totalIncome.Mul(domain.ExpensesShareRatio),
		GoalsShare:    totalIncome.Mul(domain.GoalsShareRatio),
		SavingsShare:  totalIncome.Mul(domain.SavingsShareRatio),
	}
}

// BuildAllocationPlan distributes the goals share of income across the
// given goals. The aggregate never exceeds what the goals need in total,
// no single goal is funded past its target, and rounding leftovers are
// redistributed to the goals with the most headroom first.
func BuildAllocationPlan(totalIncome decimal.Decimal, goals []*domain.Goal) (*domain.AllocationPlan, error) {
	if len(goals) == 0 {
		return nil, domain.ErrNoGoals
	}

	split := SplitIncome(totalIncome)

	totalTarget := decimal.Zero
	for _, g := range goals {
		totalTarget = totalTarget.Add(g.TargetAmount)
	}

	actual := decimal.Min(split.GoalsShare, totalTarget)

	plan := &domain.AllocationPlan{
		TotalIncome: totalIncome,
		Split:       split,
		GoalsAmount: actual,
	}

	if len(goals) == 1 {
		g := goals[0]
		newCurrent := decimal.Min(actual, g.TargetAmount)
		plan.Entries = []domain.AllocationEntry{newEntry(g, newCurrent)}
		return plan, nil
	}

	allocated := distribute(actual, goals, totalTarget)

	plan.Entries = make([]domain.AllocationEntry, len(goals))
	for i, g := range goals {
		plan.Entries[i] = newEntry(g, allocated[i])
	}
	return plan, nil
}

// distribute splits amount across goals proportionally to target size,
// rounding each provisional allocation to a whole currency unit, capping
// at each goal's target, then settling the rounding remainder.
func distribute(amount decimal.Decimal, goals []*domain.Goal, totalTarget decimal.Decimal) []decimal.Decimal {
	n := int64(len(goals))
	allocated := make([]decimal.Decimal, n)

	sum := decimal.Zero
	for i, g := range goals {
		var proportion decimal.Decimal
		if totalTarget.IsZero() {
			proportion = decimal.NewFromInt(1).Div(decimal.NewFromInt(n))
		} else {
			proportion = g.TargetAmount.Div(totalTarget)
		}

		// The only rounding before the final clamp: whole currency units
		// so the remainder math stays exact.
		provisional := amount.Mul(proportion).Round(0)
		allocated[i] = decimal.Min(provisional, g.TargetAmount)
		sum = sum.Add(allocated[i])
	}

	// Hand out any rounding shortfall, fullest headroom first. Stable sort
	// keeps ties in goal iteration order.
	leftover := amount.Sub(sum)
	if leftover.IsPositive() {
		order := make([]int, len(goals))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			ha := goals[order[a]].TargetAmount.Sub(allocated[order[a]])
			hb := goals[order[b]].TargetAmount.Sub(allocated[order[b]])
			return ha.GreaterThan(hb)
		})

		for _, i := range order {
			if !leftover.IsPositive() {
				break
			}
			headroom := goals[i].TargetAmount.Sub(allocated[i])
			if !headroom.IsPositive() {
				continue
			}
			add := decimal.Min(leftover, headroom)
			allocated[i] = allocated[i].Add(add)
			leftover = leftover.Sub(add)
		}
	}

	// Rounding can also overshoot; take the excess back from the largest
	// allocation (first such goal on ties).
	excess := sumOf(allocated).Sub(amount)
	if excess.IsPositive() {
		largest := 0
		for i := 1; i < len(allocated); i++ {
			if allocated[i].GreaterThan(allocated[largest]) {
				largest = i
			}
		}
		allocated[largest] = allocated[largest].Sub(excess)
	}

	return allocated
}

func newEntry(g *domain.Goal, newCurrent decimal.Decimal) domain.AllocationEntry {
	progress := decimal.Zero
	if !g.TargetAmount.IsZero() {
		progress = newCurrent.Div(g.TargetAmount).Mul(decimal.NewFromInt(100))
	}
	return domain.AllocationEntry{
		GoalID:       g.ID,
		NewCurrent:   newCurrent,
		NewRemaining: g.TargetAmount.Sub(newCurrent),
		Progress:     progress,
	}
}

func sumOf(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
