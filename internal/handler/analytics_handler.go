package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/fintrack-app/fintrack-backend/internal/domain"
	"github.com/fintrack-app/fintrack-backend/internal/middleware"
	"github.com/fintrack-app/fintrack-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AnalyticsHandler handles analytics HTTP requests
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// TotalsResponse holds window-wide totals with two-decimal amounts
type TotalsResponse struct {
	TotalIncome   string `json:"totalIncome"`
	TotalExpenses string `json:"totalExpenses"`
	NetIncome     string `json:"netIncome"`
}

// CategoryBucketResponse is a per-category aggregate
type CategoryBucketResponse struct {
	Category string `json:"category"`
	Income   string `json:"income"`
	Expense  string `json:"expense"`
}

// DailyPointResponse is one day of the daily series
type DailyPointResponse struct {
	Date    string `json:"date"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

// MonthlyPointResponse is one month of the monthly series
type MonthlyPointResponse struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

// AnalyticsSummaryResponse is the full analytics payload for one time range
type AnalyticsSummaryResponse struct {
	Totals     TotalsResponse           `json:"totals"`
	Categories []CategoryBucketResponse `json:"categories"`
	Daily      []DailyPointResponse     `json:"daily"`
	Monthly    []MonthlyPointResponse   `json:"monthly"`
	Window     WindowResponse           `json:"window"`
}

// WindowResponse is the resolved inclusive date window
type WindowResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// GetSummary godoc
// @Summary Get analytics summary
// @Description Aggregate totals, category breakdown, and daily/monthly series over a time range
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param range query string false "Time range mode: month, quarter, year, or custom" default(month)
// @Param start query string false "Custom range start (YYYY-MM-DD), required when range=custom"
// @Param end query string false "Custom range end (YYYY-MM-DD), required when range=custom"
// @Success 200 {object} AnalyticsSummaryResponse
// @Failure 400 {object} ProblemDetails
// @Router /analytics/summary [get]
func (h *AnalyticsHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	mode := domain.TimeRangeMode(c.QueryParam("range"))
	if mode == "" {
		mode = domain.TimeRangeMonth
	}

	rng := domain.TimeRange{Mode: mode}
	if start := c.QueryParam("start"); start != "" {
		parsed, err := time.Parse("2006-01-02", start)
		if err != nil {
			return NewValidationError(c, "Invalid start date", []ValidationError{
				{Field: "start", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		rng.Start = &parsed
	}
	if end := c.QueryParam("end"); end != "" {
		parsed, err := time.Parse("2006-01-02", end)
		if err != nil {
			return NewValidationError(c, "Invalid end date", []ValidationError{
				{Field: "end", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		rng.End = &parsed
	}

	summary, err := h.analyticsService.GetSummary(userID, rng)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTimeRange):
			return NewValidationError(c, "Invalid time range", []ValidationError{
				{Field: "range", Message: "Must be month, quarter, year, or custom"},
			})
		case errors.Is(err, domain.ErrMissingCustomRange):
			return NewValidationError(c, "Custom range requires start and end", []ValidationError{
				{Field: "start", Message: "Required for custom range"},
				{Field: "end", Message: "Required for custom range"},
			})
		}
		log.Error().Err(err).Msg("Failed to compute analytics summary")
		return NewInternalError(c, "Failed to compute analytics summary")
	}

	return c.JSON(http.StatusOK, toSummaryResponse(summary))
}

func toSummaryResponse(s *domain.AnalyticsSummary) AnalyticsSummaryResponse {
	resp := AnalyticsSummaryResponse{
		Totals: TotalsResponse{
			TotalIncome:   s.Totals.TotalIncome.StringFixed(2),
			TotalExpenses: s.Totals.TotalExpenses.StringFixed(2),
			NetIncome:     s.Totals.NetIncome.StringFixed(2),
		},
		Categories: make([]CategoryBucketResponse, len(s.Categories)),
		Daily:      make([]DailyPointResponse, len(s.Daily)),
		Monthly:    make([]MonthlyPointResponse, len(s.Monthly)),
		Window: WindowResponse{
			Start: s.Window.Start.Format(time.RFC3339),
			End:   s.Window.End.Format(time.RFC3339),
		},
	}
	for i, b := range s.Categories {
		resp.Categories[i] = CategoryBucketResponse{
			Category: b.Category,
			Income:   b.Income.StringFixed(2),
			Expense:  b.Expense.StringFixed(2),
		}
	}
	for i, d := range s.Daily {
		resp.Daily[i] = DailyPointResponse{
			Date:    d.Date.Format("2006-01-02"),
			Income:  d.Income.StringFixed(2),
			Expense: d.Expense.StringFixed(2),
		}
	}
	for i, m := range s.Monthly {
		resp.Monthly[i] = MonthlyPointResponse{
			Year:    m.Year,
			Month:   int(m.Month),
			Income:  m.Income.StringFixed(2),
			Expense: m.Expense.StringFixed(2),
		}
	}
	return resp
}
