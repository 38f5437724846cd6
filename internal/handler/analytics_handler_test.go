package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fintrack-app/fintrack-backend/internal/service"
	"github.com/fintrack-app/fintrack-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func newAnalyticsHandlerFixture() (*AnalyticsHandler, *testutil.MockTransactionRepository, uuid.UUID) {
	transactionRepo := testutil.NewMockTransactionRepository()
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	analyticsService := service.NewAnalyticsService(transactionRepo).
		WithClock(func() time.Time { return now })
	return NewAnalyticsHandler(analyticsService), transactionRepo, uuid.New()
}

func TestGetSummary_DefaultsToMonth(t *testing.T) {
	e := echo.New()
	handler, transactionRepo, userID := newAnalyticsHandlerFixture()

	transactionRepo.AddIncome(userID, "Salary", decimal.NewFromInt(3000), fixedDate(2025, 3, 5))
	transactionRepo.AddExpense(userID, "Rent", decimal.NewFromFloat(1200.50), fixedDate(2025, 3, 3))
	// Previous month: excluded from the month window
	transactionRepo.AddIncome(userID, "Old", decimal.NewFromInt(999), fixedDate(2025, 2, 20))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID)

	if err := handler.GetSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response AnalyticsSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Totals.TotalIncome != "3000.00" {
		t.Errorf("Expected total income '3000.00', got %s", response.Totals.TotalIncome)
	}
	if response.Totals.TotalExpenses != "1200.50" {
		t.Errorf("Expected total expenses '1200.50', got %s", response.Totals.TotalExpenses)
	}
	if response.Totals.NetIncome != "1799.50" {
		t.Errorf("Expected net income '1799.50', got %s", response.Totals.NetIncome)
	}
	// March 1 through March 15, zero-filled
	if len(response.Daily) != 15 {
		t.Errorf("Expected 15 daily points, got %d", len(response.Daily))
	}
	if len(response.Monthly) != 12 {
		t.Errorf("Expected 12 monthly points, got %d", len(response.Monthly))
	}
}

func TestGetSummary_CustomRange(t *testing.T) {
	e := echo.New()
	handler, transactionRepo, userID := newAnalyticsHandlerFixture()

	transactionRepo.AddIncome(userID, "Salary", decimal.NewFromInt(100), fixedDate(2024, 12, 10))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary?range=custom&start=2024-11-15&end=2025-01-20", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID)

	if err := handler.GetSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response AnalyticsSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	// One bucket per spanned calendar month: Nov, Dec, Jan
	if len(response.Monthly) != 3 {
		t.Fatalf("Expected 3 monthly points, got %d", len(response.Monthly))
	}
	if response.Monthly[1].Income != "100.00" {
		t.Errorf("Expected December income '100.00', got %s", response.Monthly[1].Income)
	}
}

func TestGetSummary_CustomRangeMissingBounds(t *testing.T) {
	e := echo.New()
	handler, _, userID := newAnalyticsHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary?range=custom&start=2024-11-15", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID)

	if err := handler.GetSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetSummary_InvalidRange(t *testing.T) {
	e := echo.New()
	handler, _, userID := newAnalyticsHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary?range=decade", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID)

	if err := handler.GetSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetSummary_InvalidStartDate(t *testing.T) {
	e := echo.New()
	handler, _, userID := newAnalyticsHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary?range=custom&start=soon&end=2025-01-20", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID)

	if err := handler.GetSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
