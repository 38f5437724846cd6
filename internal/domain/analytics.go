package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TimeRangeMode string

const (
	TimeRangeMonth   TimeRangeMode = "month"
	TimeRangeQuarter TimeRangeMode = "quarter"
	TimeRangeYear    TimeRangeMode = "year"
	TimeRangeCustom  TimeRangeMode = "custom"
)

// Valid reports whether m is a known selector mode.
func (m TimeRangeMode) Valid() bool {
	switch m {
	case TimeRangeMonth, TimeRangeQuarter, TimeRangeYear, TimeRangeCustom:
		return true
	}
	return false
}

// TimeRange is the selector the UI sends. Start/End are only consulted in
// custom mode and both must be present there.
type TimeRange struct {
	Mode  TimeRangeMode
	Start *time.Time
	End   *time.Time
}

// Window is a resolved inclusive date range used to filter records.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Totals holds window-wide income/expense sums.
type Totals struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

// CategoryBucket aggregates one category label within a window. A category
// seen only on the income side has a zero expense total and vice versa.
type CategoryBucket struct {
	Category string          `json:"category"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
}

// DailyPoint is one calendar day of the daily time series.
type DailyPoint struct {
	Date    time.Time       `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// MonthlyPoint is one calendar month of the monthly time series.
type MonthlyPoint struct {
	Year    int             `json:"year"`
	Month   time.Month      `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// AnalyticsSummary is everything the analytics page renders for one
// selector: totals, per-category buckets in first-appearance order, the
// zero-filled daily series, the monthly series, and the resolved window.
type AnalyticsSummary struct {
	Totals     Totals           `json:"totals"`
	Categories []CategoryBucket `json:"categories"`
	Daily      []DailyPoint     `json:"daily"`
	Monthly    []MonthlyPoint   `json:"monthly"`
	Window     Window           `json:"window"`
}
