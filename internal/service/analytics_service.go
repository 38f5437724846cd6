package service

import (
	"time"

	"github.com/fintrack-app/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AnalyticsService turns a user's raw income and expense records plus a
// time-range selector into the derived views the analytics page renders.
// It holds no state beyond its collaborators and an injected clock, so the
// same records and selector always produce the same summary.
type AnalyticsService struct {
	transactionRepo domain.TransactionRepository
	now             func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService using the wall clock.
func NewAnalyticsService(transactionRepo domain.TransactionRepository) *AnalyticsService {
	return &AnalyticsService{
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// WithClock overrides the service's notion of "now". Used by tests and
// anything that needs deterministic window resolution.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

// GetSummary computes the full analytics summary for a user and selector.
// Records that fail to load are treated as not-yet-available: the summary
// is computed over whatever side did load, never an error.
func (s *AnalyticsService) GetSummary(userID uuid.UUID, rng domain.TimeRange) (*domain.AnalyticsSummary, error) {
	window, err := s.ResolveWindow(rng)
	if err != nil {
		return nil, err
	}

	income := s.listByType(userID, domain.TransactionTypeIncome)
	expenses := s.listByType(userID, domain.TransactionTypeExpense)

	income = FilterByWindow(income, window)
	expenses = FilterByWindow(expenses, window)

	return &domain.AnalyticsSummary{
		Totals:     ComputeTotals(income, expenses),
		Categories: CategoryBuckets(income, expenses),
		Daily:      DailySeries(income, expenses, window),
		Monthly:    s.monthlySeries(income, expenses, rng),
		Window:     window,
	}, nil
}

// listByType fetches one side of the ledger, normalizing failures to an
// empty set so a flaky read can never take the analytics page down.
func (s *AnalyticsService) listByType(userID uuid.UUID, t domain.TransactionType) []*domain.Transaction {
	records, err := s.transactionRepo.ListByUser(userID, &domain.TransactionFilters{Type: &t})
	if err != nil {
		log.Warn().
			Err(err).
			Str("user_id", userID.String()).
			Str("type", string(t)).
			Msg("Failed to load records for analytics, treating as empty")
		return nil
	}
	return records
}

// ResolveWindow maps a selector to an inclusive date range.
//
// The month window runs from the first of the current month to the end of
// today, so it grows day by day and resets at the month boundary. The
// monthly bucketing below shares a similar quirk. Both match the shipped
// frontend behavior and are kept deliberately; see DESIGN.md before
// changing either.
func (s *AnalyticsService) ResolveWindow(rng domain.TimeRange) (domain.Window, error) {
	now := s.now()

	switch rng.Mode {
	case domain.TimeRangeMonth:
		return domain.Window{
			Start: startOfMonth(now),
			End:   endOfDay(now),
		}, nil
	case domain.TimeRangeQuarter:
		return domain.Window{
			Start: startOfMonth(now.AddDate(0, -3, 0)),
			End:   endOfDay(now),
		}, nil
	case domain.TimeRangeYear:
		return domain.Window{
			Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()),
			End:   endOfDay(now),
		}, nil
	case domain.TimeRangeCustom:
		if rng.Start == nil || rng.End == nil {
			return domain.Window{}, domain.ErrMissingCustomRange
		}
		return domain.Window{
			Start: startOfDay(*rng.Start),
			End:   endOfDay(*rng.End),
		}, nil
	default:
		return domain.Window{}, domain.ErrInvalidTimeRange
	}
}

// monthlySeries picks the bucketing strategy by selector mode: custom
// ranges get one bucket per spanned calendar month, everything else gets
// the current year's twelve months keyed by month-of-year.
func (s *AnalyticsService) monthlySeries(income, expenses []*domain.Transaction, rng domain.TimeRange) []domain.MonthlyPoint {
	if rng.Mode == domain.TimeRangeCustom && rng.Start != nil && rng.End != nil {
		return MonthlySeriesForRange(income, expenses, *rng.Start, *rng.End)
	}
	return MonthlySeriesForYear(income, expenses, s.now().Year())
}

// FilterByWindow returns the records whose date falls inside the window,
// bounds inclusive, preserving input order.
func FilterByWindow(records []*domain.Transaction, window domain.Window) []*domain.Transaction {
	filtered := make([]*domain.Transaction, 0, len(records))
	for _, r := range records {
		if r != nil && window.Contains(r.Date) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// ComputeTotals sums both sides of the filtered ledger.
func ComputeTotals(income, expenses []*domain.Transaction) domain.Totals {
	totalIncome := sumAmounts(income)
	totalExpenses := sumAmounts(expenses)
	return domain.Totals{
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		NetIncome:     totalIncome.Sub(totalExpenses),
	}
}

// CategoryBuckets groups filtered records by exact category label. Buckets
// appear in order of first appearance, income records first.
func CategoryBuckets(income, expenses []*domain.Transaction) []domain.CategoryBucket {
	index := make(map[string]int)
	buckets := make([]domain.CategoryBucket, 0)

	bucketFor := func(category string) *domain.CategoryBucket {
		if i, ok := index[category]; ok {
			return &buckets[i]
		}
		buckets = append(buckets, domain.CategoryBucket{
			Category: category,
			Income:   decimal.Zero,
			Expense:  decimal.Zero,
		})
		index[category] = len(buckets) - 1
		return &buckets[len(buckets)-1]
	}

	for _, r := range income {
		b := bucketFor(r.Category)
		b.Income = b.Income.Add(r.Amount)
	}
	for _, r := range expenses {
		b := bucketFor(r.Category)
		b.Expense = b.Expense.Add(r.Amount)
	}

	return buckets
}

// DailySeries produces one point per calendar day of the window, bounds
// inclusive. Days without records stay at zero rather than being omitted.
func DailySeries(income, expenses []*domain.Transaction, window domain.Window) []domain.DailyPoint {
	start := startOfDay(window.Start)
	end := startOfDay(window.End)
	if end.Before(start) {
		return nil
	}

	points := make([]domain.DailyPoint, 0)
	dayIndex := make(map[string]int)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dayIndex[dayKey(d)] = len(points)
		points = append(points, domain.DailyPoint{
			Date:    d,
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		})
	}

	for _, r := range income {
		if i, ok := dayIndex[dayKey(r.Date)]; ok {
			points[i].Income = points[i].Income.Add(r.Amount)
		}
	}
	for _, r := range expenses {
		if i, ok := dayIndex[dayKey(r.Date)]; ok {
			points[i].Expense = points[i].Expense.Add(r.Amount)
		}
	}

	return points
}

// MonthlySeriesForRange produces one point per calendar month spanned by
// [start, end]. Records outside the spanned months are skipped.
func MonthlySeriesForRange(income, expenses []*domain.Transaction, start, end time.Time) []domain.MonthlyPoint {
	startYear, startMonth := start.Year(), int(start.Month())
	monthCount := (end.Year()-startYear)*12 + (int(end.Month()) - startMonth) + 1
	if monthCount < 1 {
		return nil
	}

	points := make([]domain.MonthlyPoint, monthCount)
	for i := range points {
		d := time.Date(startYear, time.Month(startMonth+i), 1, 0, 0, 0, 0, time.UTC)
		points[i] = domain.MonthlyPoint{
			Year:    d.Year(),
			Month:   d.Month(),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
	}

	indexOf := func(t time.Time) int {
		return (t.Year()-startYear)*12 + (int(t.Month()) - startMonth)
	}
	for _, r := range income {
		if i := indexOf(r.Date); i >= 0 && i < monthCount {
			points[i].Income = points[i].Income.Add(r.Amount)
		}
	}
	for _, r := range expenses {
		if i := indexOf(r.Date); i >= 0 && i < monthCount {
			points[i].Expense = points[i].Expense.Add(r.Amount)
		}
	}

	return points
}

// MonthlySeriesForYear produces twelve points for the given year, bucketing
// records by month-of-year. Records from other years land in the same
// buckets; the upstream window filter is what keeps them out.
func MonthlySeriesForYear(income, expenses []*domain.Transaction, year int) []domain.MonthlyPoint {
	points := make([]domain.MonthlyPoint, 12)
	for i := range points {
		points[i] = domain.MonthlyPoint{
			Year:    year,
			Month:   time.Month(i + 1),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
	}

	for _, r := range income {
		i := int(r.Date.Month()) - 1
		points[i].Income = points[i].Income.Add(r.Amount)
	}
	for _, r := range expenses {
		i := int(r.Date.Month()) - 1
		points[i].Expense = points[i].Expense.Add(r.Amount)
	}

	return points
}

func sumAmounts(records []*domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay returns the last representable instant of t's calendar day.
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
