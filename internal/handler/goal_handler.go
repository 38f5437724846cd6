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
	"github.com/shopspring/decimal"
)

// GoalHandler handles savings goal HTTP requests
type GoalHandler struct {
	goalService       *service.GoalService
	allocationService *service.AllocationService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService, allocationService *service.AllocationService) *GoalHandler {
	return &GoalHandler{
		goalService:       goalService,
		allocationService: allocationService,
	}
}

// CreateGoalRequest represents the create goal request body
type CreateGoalRequest struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	TargetAmount  string  `json:"targetAmount"`
	CurrentAmount *string `json:"currentAmount,omitempty"`
	TargetDate    string  `json:"targetDate"`
	Description   *string `json:"description,omitempty"`
}

// UpdateGoalRequest represents the update goal request body
type UpdateGoalRequest struct {
	Name          *string `json:"name,omitempty"`
	Category      *string `json:"category,omitempty"`
	TargetAmount  *string `json:"targetAmount,omitempty"`
	CurrentAmount *string `json:"currentAmount,omitempty"`
	TargetDate    *string `json:"targetDate,omitempty"`
	Description   *string `json:"description,omitempty"`
}

// GoalResponse represents a goal in API responses. Remaining amount and
// progress are computed from the stored amounts on every response.
type GoalResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"userId"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	TargetAmount    string  `json:"targetAmount"`
	CurrentAmount   string  `json:"currentAmount"`
	RemainingAmount string  `json:"remainingAmount"`
	Progress        string  `json:"progress"`
	TargetDate      string  `json:"targetDate"`
	Description     *string `json:"description,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// AllocationResultResponse summarizes one allocation run
type AllocationResultResponse struct {
	TotalIncome   string         `json:"totalIncome"`
	ExpensesShare string         `json:"expensesShare"`
	GoalsShare    string         `json:"goalsShare"`
	SavingsShare  string         `json:"savingsShare"`
	GoalsAmount   string         `json:"goalsAmount"`
	UpdatedCount  int            `json:"updatedCount"`
	TotalCount    int            `json:"totalCount"`
	Failures      []string       `json:"failures,omitempty"`
	Goals         []GoalResponse `json:"goals,omitempty"`
}

func toGoalResponse(g *domain.Goal) GoalResponse {
	return GoalResponse{
		ID:              g.ID.String(),
		UserID:          g.UserID.String(),
		Name:            g.Name,
		Category:        g.Category,
		TargetAmount:    g.TargetAmount.String(),
		CurrentAmount:   g.CurrentAmount.String(),
		RemainingAmount: g.RemainingAmount().String(),
		Progress:        g.Progress().Round(2).String(),
		TargetDate:      g.TargetDate.Format("2006-01-02"),
		Description:     g.Description,
		CreatedAt:       g.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       g.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateGoal godoc
// @Summary Create a goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGoalRequest true "Goal creation request"
// @Success 201 {object} GoalResponse
// @Failure 400 {object} ProblemDetails
// @Router /goals [post]
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	targetAmount, err := decimal.NewFromString(req.TargetAmount)
	if err != nil {
		return NewValidationError(c, "Invalid targetAmount", []ValidationError{
			{Field: "targetAmount", Message: "Must be a valid decimal number"},
		})
	}

	var currentAmount *decimal.Decimal
	if req.CurrentAmount != nil {
		parsed, err := decimal.NewFromString(*req.CurrentAmount)
		if err != nil {
			return NewValidationError(c, "Invalid currentAmount", []ValidationError{
				{Field: "currentAmount", Message: "Must be a valid decimal number"},
			})
		}
		currentAmount = &parsed
	}

	targetDate, err := time.Parse("2006-01-02", req.TargetDate)
	if err != nil {
		return NewValidationError(c, "Invalid targetDate", []ValidationError{
			{Field: "targetDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	goal, err := h.goalService.CreateGoal(userID, service.CreateGoalInput{
		Name:          req.Name,
		Category:      req.Category,
		TargetAmount:  targetAmount,
		CurrentAmount: currentAmount,
		TargetDate:    targetDate,
		Description:   req.Description,
	})
	if err != nil {
		if resp := mapGoalValidationError(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Msg("Failed to create goal")
		return NewInternalError(c, "Failed to create goal")
	}

	return c.JSON(http.StatusCreated, toGoalResponse(goal))
}

// GetGoals godoc
// @Summary List goals
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Success 200 {array} GoalResponse
// @Router /goals [get]
func (h *GoalHandler) GetGoals(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	goals, err := h.goalService.ListGoals(userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list goals")
		return NewInternalError(c, "Failed to list goals")
	}

	responses := make([]GoalResponse, len(goals))
	for i, g := range goals {
		responses[i] = toGoalResponse(g)
	}
	return c.JSON(http.StatusOK, responses)
}

// GetGoal godoc
// @Summary Get a goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 200 {object} GoalResponse
// @Failure 404 {object} ProblemDetails
// @Router /goals/{id} [get]
func (h *GoalHandler) GetGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	goal, err := h.goalService.GetGoal(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Msg("Failed to get goal")
		return NewInternalError(c, "Failed to get goal")
	}

	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// UpdateGoal godoc
// @Summary Update a goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Param request body UpdateGoalRequest true "Goal update request"
// @Success 200 {object} GoalResponse
// @Failure 404 {object} ProblemDetails
// @Router /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	var req UpdateGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateGoalInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
	}

	if req.TargetAmount != nil {
		parsed, err := decimal.NewFromString(*req.TargetAmount)
		if err != nil {
			return NewValidationError(c, "Invalid targetAmount", []ValidationError{
				{Field: "targetAmount", Message: "Must be a valid decimal number"},
			})
		}
		input.TargetAmount = &parsed
	}
	if req.CurrentAmount != nil {
		parsed, err := decimal.NewFromString(*req.CurrentAmount)
		if err != nil {
			return NewValidationError(c, "Invalid currentAmount", []ValidationError{
				{Field: "currentAmount", Message: "Must be a valid decimal number"},
			})
		}
		input.CurrentAmount = &parsed
	}
	if req.TargetDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.TargetDate)
		if err != nil {
			return NewValidationError(c, "Invalid targetDate", []ValidationError{
				{Field: "targetDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		input.TargetDate = &parsed
	}

	goal, err := h.goalService.UpdateGoal(userID, id, input)
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		if resp := mapGoalValidationError(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Msg("Failed to update goal")
		return NewInternalError(c, "Failed to update goal")
	}

	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// DeleteGoal godoc
// @Summary Delete a goal
// @Tags goals
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	if err := h.goalService.DeleteGoal(userID, id); err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Msg("Failed to delete goal")
		return NewInternalError(c, "Failed to delete goal")
	}

	return c.NoContent(http.StatusNoContent)
}

// AllocateToGoals godoc
// @Summary Allocate income to goals
// @Description Apply the 50/30/20 rule and distribute the goals share across all goals
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AllocationResultResponse
// @Failure 400 {object} ProblemDetails
// @Failure 502 {object} ProblemDetails
// @Router /goals/allocate [post]
func (h *GoalHandler) AllocateToGoals(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	result, err := h.allocationService.AllocateToGoals(userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoGoals) {
			return NewValidationError(c, "No goals to allocate to", nil)
		}
		if errors.Is(err, domain.ErrAllocationFailed) {
			// Every update failed; the computed plan still explains what
			// was attempted
			return c.JSON(http.StatusBadGateway, ProblemDetails{
				Type:     ErrorTypeInternal,
				Title:    "Allocation Failed",
				Status:   http.StatusBadGateway,
				Detail:   "All goal updates failed",
				Instance: c.Request().URL.Path,
			})
		}
		log.Error().Err(err).Msg("Failed to allocate to goals")
		return NewInternalError(c, "Failed to allocate to goals")
	}

	goals, err := h.goalService.ListGoals(userID)
	if err != nil {
		// Updates already landed; respond with the summary and no goal list
		log.Warn().Err(err).Msg("Failed to reload goals after allocation")
		goals = nil
	}

	return c.JSON(http.StatusOK, toAllocationResultResponse(result, goals))
}

// PreviewAllocation godoc
// @Summary Preview the allocation plan
// @Description Compute the 50/30/20 allocation plan without updating any goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AllocationResultResponse
// @Failure 400 {object} ProblemDetails
// @Router /goals/allocate/preview [get]
func (h *GoalHandler) PreviewAllocation(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	plan, err := h.allocationService.PreviewAllocation(userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoGoals) {
			return NewValidationError(c, "No goals to allocate to", nil)
		}
		log.Error().Err(err).Msg("Failed to preview allocation")
		return NewInternalError(c, "Failed to preview allocation")
	}

	result := &domain.AllocationResult{Plan: plan, TotalCount: len(plan.Entries)}
	return c.JSON(http.StatusOK, toAllocationResultResponse(result, nil))
}

func toAllocationResultResponse(result *domain.AllocationResult, goals []*domain.Goal) AllocationResultResponse {
	resp := AllocationResultResponse{
		TotalIncome:   result.Plan.TotalIncome.StringFixed(2),
		ExpensesShare: result.Plan.Split.ExpensesShare.StringFixed(2),
		GoalsShare:    result.Plan.Split.GoalsShare.StringFixed(2),
		SavingsShare:  result.Plan.Split.SavingsShare.StringFixed(2),
		GoalsAmount:   result.Plan.GoalsAmount.StringFixed(2),
		UpdatedCount:  result.UpdatedCount,
		TotalCount:    result.TotalCount,
	}
	for _, id := range result.Failures {
		resp.Failures = append(resp.Failures, id.String())
	}
	for _, g := range goals {
		resp.Goals = append(resp.Goals, toGoalResponse(g))
	}
	return resp
}

// mapGoalValidationError translates goal validation errors into problem
// responses; returns nil for errors it does not recognize.
func mapGoalValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "targetAmount", Message: "Target must be positive and current must stay within it"},
		})
	}
	return nil
}
