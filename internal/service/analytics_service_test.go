package service

import (
	"errors"
	"testing"
	"time"

	"github.com/fintrack-app/fintrack-backend/internal/domain"
	"github.com/fintrack-app/fintrack-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fixedNow is mid-March so month, quarter, and year windows all differ.
var fixedNow = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

func newAnalyticsFixture() (*AnalyticsService, *testutil.MockTransactionRepository, uuid.UUID) {
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewAnalyticsService(transactionRepo).WithClock(func() time.Time { return fixedNow })
	return svc, transactionRepo, uuid.New()
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveWindow_Month(t *testing.T) {
	svc, _, _ := newAnalyticsFixture()

	window, err := svc.ResolveWindow(domain.TimeRange{Mode: domain.TimeRangeMonth})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	wantStart := date(2025, time.March, 1)
	if !window.Start.Equal(wantStart) {
		t.Errorf("Expected start %v, got %v", wantStart, window.Start)
	}
	// End is the last instant of today, not of the month.
	if window.End.Day() != 15 || window.End.Month() != time.March {
		t.Errorf("Expected end on March 15, got %v", window.End)
	}
	if window.End.Hour() != 23 || window.End.Minute() != 59 {
		t.Errorf("Expected end of day, got %v", window.End)
	}
}

func TestResolveWindow_Quarter(t *testing.T) {
	svc, _, _ := newAnalyticsFixture()

	window, err := svc.ResolveWindow(domain.TimeRange{Mode: domain.TimeRangeQuarter})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	wantStart := date(2024, time.December, 1)
	if !window.Start.Equal(wantStart) {
		t.Errorf("Expected start %v, got %v", wantStart, window.Start)
	}
}

func TestResolveWindow_Year(t *testing.T) {
	svc, _, _ := newAnalyticsFixture()

	window, err := svc.ResolveWindow(domain.TimeRange{Mode: domain.TimeRangeYear})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	wantStart := date(2025, time.January, 1)
	if !window.Start.Equal(wantStart) {
		t.Errorf("Expected start %v, got %v", wantStart, window.Start)
	}
}

func TestResolveWindow_Custom(t *testing.T) {
	svc, _, _ := newAnalyticsFixture()

	start := date(2025, time.January, 10)
	end := date(2025, time.February, 20)
	window, err := svc.ResolveWindow(domain.TimeRange{
		Mode:  domain.TimeRangeCustom,
		Start: &start,
		End:   &end,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !window.Start.Equal(start) {
		t.Errorf("Expected start %v, got %v", start, window.Start)
	}
	if window.End.Day() != 20 || window.End.Hour() != 23 {
		t.Errorf("Expected end of Feb 20, got %v", window.End)
	}
}

func TestResolveWindow_CustomMissingBounds(t *testing.T) {
	svc, _, _ := newAnalyticsFixture()

	start := date(2025, time.January, 10)
	cases := []domain.TimeRange{
		{Mode: domain.TimeRangeCustom},
		{Mode: domain.TimeRangeCustom, Start: &start},
		{Mode: domain.TimeRangeCustom, End: &start},
	}
	for i, rng := range cases {
		if _, err := svc.ResolveWindow(rng); !errors.Is(err, domain.ErrMissingCustomRange) {
			t.Errorf("Case %d: expected ErrMissingCustomRange, got %v", i, err)
		}
	}
}

func TestResolveWindow_InvalidMode(t *testing.T) {
	svc, _, _ := newAnalyticsFixture()

	if _, err := svc.ResolveWindow(domain.TimeRange{Mode: "decade"}); !errors.Is(err, domain.ErrInvalidTimeRange) {
		t.Fatalf("Expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestGetSummary_Totals(t *testing.T) {
	svc, transactionRepo, userID := newAnalyticsFixture()

	transactionRepo.AddIncome(userID, "Salary", decimal.NewFromInt(3000), date(2025, time.March, 5))
	transactionRepo.AddIncome(userID, "Freelance", decimal.NewFromInt(500), date(2025, time.March, 10))
	transactionRepo.AddExpense(userID, "Rent", decimal.NewFromInt(1200), date(2025, time.March, 3))

	summary, err := svc.GetSummary(userID, domain.TimeRange{Mode: domain.TimeRangeMonth})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !summary.Totals.TotalIncome.Equal(decimal.NewFromInt(3500)) {
		t.Errorf("Expected total income 3500, got %s", summary.Totals.TotalIncome)
	}
	if !summary.Totals.TotalExpenses.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("Expected total expenses 1200, got %s", summary.Totals.TotalExpenses)
	}
	if !summary.Totals.NetIncome.Equal(decimal.NewFromInt(2300)) {
		t.Errorf("Expected net income 2300, got %s", summary.Totals.NetIncome)
	}
}

func TestGetSummary_WindowFiltering(t *testing.T) {
	svc, transactionRepo, userID := newAnalyticsFixture()

	// Inside the month window
	transactionRepo.AddIncome(userID, "Salary", decimal.NewFromInt(3000), date(2025, time.March, 1))
	// Boundary day still inside
	transactionRepo.AddIncome(userID, "Bonus", decimal.NewFromInt(100), date(2025, time.March, 15))
	// Outside: previous month and future day
	transactionRepo.AddIncome(userID, "Old", decimal.NewFromInt(999), date(2025, time.February, 28))
	transactionRepo.AddIncome(userID, "Future", decimal.NewFromInt(999), date(2025, time.March, 20))

	summary, err := svc.GetSummary(userID, domain.TimeRange{Mode: domain.TimeRangeMonth})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !summary.Totals.TotalIncome.Equal(decimal.NewFromInt(3100)) {
		t.Errorf("Expected total income 3100, got %s", summary.Totals.TotalIncome)
	}
}

func TestGetSummary_EmptyData(t *testing.T) {
	svc, _, userID := newAnalyticsFixture()

	summary, err := svc.GetSummary(userID, domain.TimeRange{Mode: domain.TimeRangeMonth})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !summary.Totals.TotalIncome.IsZero() || !summary.Totals.TotalExpenses.IsZero() {
		t.Errorf("Expected zero totals, got %+v", summary.Totals)
	}
	if len(summary.Categories) != 0 {
		t.Errorf("Expected no categories, got %d", len(summary.Categories))
	}
	// Daily series is still zero-filled over the whole window.
	if len(summary.Daily) != 15 {
		t.Errorf("Expected 15 daily points, got %d", len(summary.Daily))
	}
}

func TestGetSummary_RepoFailureTreatedAsEmpty(t *testing.T) {
	svc, transactionRepo, userID := newAnalyticsFixture()
	transactionRepo.ListErr = errors.New("connection reset")

	summary, err := svc.GetSummary(userID, domain.TimeRange{Mode: domain.TimeRangeMonth})
	if err != nil {
		t.Fatalf("Expected no error when reads fail, got %v", err)
	}
	if !summary.Totals.TotalIncome.IsZero() {
		t.Errorf("Expected zero income, got %s", summary.Totals.TotalIncome)
	}
}

func TestCategoryBuckets_FirstAppearanceOrder(t *testing.T) {
	income := []*domain.Transaction{
		{Category: "Salary", Amount: decimal.NewFromInt(3000)},
		{Category: "Freelance", Amount: decimal.NewFromInt(500)},
	}
	expenses := []*domain.Transaction{
		{Category: "Rent", Amount: decimal.NewFromInt(1200)},
		{Category: "Salary", Amount: decimal.NewFromInt(50)},
		{Category: "Food", Amount: decimal.NewFromInt(300)},
	}

	buckets := CategoryBuckets(income, expenses)

	want := []string{"Salary", "Freelance", "Rent", "Food"}
	if len(buckets) != len(want) {
		t.Fatalf("Expected %d buckets, got %d", len(want), len(buckets))
	}
	for i, name := range want {
		if buckets[i].Category != name {
			t.Errorf("Bucket %d: expected %q, got %q", i, name, buckets[i].Category)
		}
	}

	// Shared label accumulates both sides in one bucket.
	if !buckets[0].Income.Equal(decimal.NewFromInt(3000)) || !buckets[0].Expense.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected Salary bucket 3000/50, got %s/%s", buckets[0].Income, buckets[0].Expense)
	}
}

func TestCategoryBuckets_SumMatchesTotals(t *testing.T) {
	income := []*domain.Transaction{
		{Category: "A", Amount: decimal.NewFromFloat(10.25)},
		{Category: "B", Amount: decimal.NewFromFloat(20.50)},
		{Category: "A", Amount: decimal.NewFromFloat(5.25)},
	}
	expenses := []*domain.Transaction{
		{Category: "C", Amount: decimal.NewFromFloat(7.75)},
	}

	buckets := CategoryBuckets(income, expenses)
	totals := ComputeTotals(income, expenses)

	incomeSum, expenseSum := decimal.Zero, decimal.Zero
	for _, b := range buckets {
		incomeSum = incomeSum.Add(b.Income)
		expenseSum = expenseSum.Add(b.Expense)
	}
	if !incomeSum.Equal(totals.TotalIncome) {
		t.Errorf("Category income sum %s != total %s", incomeSum, totals.TotalIncome)
	}
	if !expenseSum.Equal(totals.TotalExpenses) {
		t.Errorf("Category expense sum %s != total %s", expenseSum, totals.TotalExpenses)
	}
}

func TestDailySeries_ZeroFilled(t *testing.T) {
	window := domain.Window{
		Start: date(2025, time.March, 1),
		End:   time.Date(2025, time.March, 5, 23, 59, 59, 0, time.UTC),
	}
	income := []*domain.Transaction{
		{Category: "Salary", Amount: decimal.NewFromInt(100), Date: date(2025, time.March, 3)},
	}

	points := DailySeries(income, nil, window)

	if len(points) != 5 {
		t.Fatalf("Expected 5 daily points, got %d", len(points))
	}
	for i, p := range points {
		wantDay := i + 1
		if p.Date.Day() != wantDay {
			t.Errorf("Point %d: expected day %d, got %d", i, wantDay, p.Date.Day())
		}
		if wantDay == 3 {
			if !p.Income.Equal(decimal.NewFromInt(100)) {
				t.Errorf("Expected 100 on day 3, got %s", p.Income)
			}
		} else if !p.Income.IsZero() {
			t.Errorf("Expected zero on day %d, got %s", wantDay, p.Income)
		}
	}
}

func TestMonthlySeriesForRange_BucketCount(t *testing.T) {
	start := date(2024, time.November, 15)
	end := date(2025, time.February, 10)

	income := []*domain.Transaction{
		{Category: "Salary", Amount: decimal.NewFromInt(100), Date: date(2024, time.December, 1)},
		// Outside the spanned months: skipped, not clamped
		{Category: "Salary", Amount: decimal.NewFromInt(999), Date: date(2024, time.June, 1)},
	}

	points := MonthlySeriesForRange(income, nil, start, end)

	if len(points) != 4 {
		t.Fatalf("Expected 4 monthly points (Nov-Feb), got %d", len(points))
	}
	if points[0].Year != 2024 || points[0].Month != time.November {
		t.Errorf("Expected first bucket Nov 2024, got %d-%v", points[0].Year, points[0].Month)
	}
	if points[3].Year != 2025 || points[3].Month != time.February {
		t.Errorf("Expected last bucket Feb 2025, got %d-%v", points[3].Year, points[3].Month)
	}
	if !points[1].Income.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected December income 100, got %s", points[1].Income)
	}
	total := decimal.Zero
	for _, p := range points {
		total = total.Add(p.Income)
	}
	if !total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected out-of-range record skipped, series sums to %s", total)
	}
}

func TestMonthlySeriesForYear_TwelveBuckets(t *testing.T) {
	income := []*domain.Transaction{
		{Category: "Salary", Amount: decimal.NewFromInt(100), Date: date(2025, time.January, 10)},
		{Category: "Salary", Amount: decimal.NewFromInt(200), Date: date(2025, time.March, 10)},
	}

	points := MonthlySeriesForYear(income, nil, 2025)

	if len(points) != 12 {
		t.Fatalf("Expected 12 monthly points, got %d", len(points))
	}
	if !points[0].Income.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected January income 100, got %s", points[0].Income)
	}
	if !points[2].Income.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected March income 200, got %s", points[2].Income)
	}
}

func TestGetSummary_Deterministic(t *testing.T) {
	svc, transactionRepo, userID := newAnalyticsFixture()

	transactionRepo.AddIncome(userID, "Salary", decimal.NewFromInt(3000), date(2025, time.March, 5))
	transactionRepo.AddExpense(userID, "Rent", decimal.NewFromInt(1200), date(2025, time.March, 3))

	first, err := svc.GetSummary(userID, domain.TimeRange{Mode: domain.TimeRangeMonth})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := svc.GetSummary(userID, domain.TimeRange{Mode: domain.TimeRangeMonth})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !first.Totals.NetIncome.Equal(second.Totals.NetIncome) {
		t.Errorf("Summaries differ between runs: %s vs %s", first.Totals.NetIncome, second.Totals.NetIncome)
	}
	if len(first.Daily) != len(second.Daily) {
		t.Errorf("Daily series length differs: %d vs %d", len(first.Daily), len(second.Daily))
	}
}
