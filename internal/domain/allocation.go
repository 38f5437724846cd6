package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget split ratios for the 50/30/20 rule.
var (
	ExpensesShareRatio = decimal.NewFromFloat(0.5)
	GoalsShareRatio    = decimal.NewFromFloat(0.3)
	SavingsShareRatio  = decimal.NewFromFloat(0.2)
)

// BudgetSplit is the 50/30/20 division of total income.
type BudgetSplit struct {
	ExpensesShare decimal.Decimal `json:"expensesShare"`
	GoalsShare    decimal.Decimal `json:"goalsShare"`
	SavingsShare  decimal.Decimal `json:"savingsShare"`
}

// AllocationEntry is the computed new state for a single goal.
type AllocationEntry struct {
	GoalID       uuid.UUID       `json:"goalId"`
	NewCurrent   decimal.Decimal `json:"newCurrentAmount"`
	NewRemaining decimal.Decimal `json:"newRemainingAmount"`
	Progress     decimal.Decimal `json:"newProgress"`
}

// AllocationPlan is one run of the allocation engine: the split, the
// aggregate amount actually given to goals, and a per-goal entry in the
// goals' iteration order. Plans are pure values; applying one is separate.
type AllocationPlan struct {
	TotalIncome decimal.Decimal   `json:"totalIncome"`
	Split       BudgetSplit       `json:"split"`
	GoalsAmount decimal.Decimal   `json:"goalsAmount"`
	Entries     []AllocationEntry `json:"entries"`
}

// AllocationResult reports how applying a plan went. Updates are
// independent, so any mix of successes and failures is possible.
type AllocationResult struct {
	Plan         *AllocationPlan `json:"plan"`
	UpdatedCount int             `json:"updatedCount"`
	TotalCount   int             `json:"totalCount"`
	Failures     []uuid.UUID     `json:"failures,omitempty"`
}
