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

// EventHandler handles calendar event HTTP requests
type EventHandler struct {
	eventService *service.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// CreateEventRequest represents the create event request body
type CreateEventRequest struct {
	Title    string  `json:"title"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Amount   string  `json:"amount"`
	Date     string  `json:"date"`
	Notes    *string `json:"notes,omitempty"`
}

// UpdateEventRequest represents the update event request body
type UpdateEventRequest struct {
	Title    *string `json:"title,omitempty"`
	Type     *string `json:"type,omitempty"`
	Category *string `json:"category,omitempty"`
	Amount   *string `json:"amount,omitempty"`
	Date     *string `json:"date,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// EventResponse represents a calendar event in API responses
type EventResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Title     string  `json:"title"`
	Type      string  `json:"type"`
	Category  string  `json:"category"`
	Amount    string  `json:"amount"`
	Date      string  `json:"date"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func toEventResponse(e *domain.Event) EventResponse {
	return EventResponse{
		ID:        e.ID.String(),
		UserID:    e.UserID.String(),
		Title:     e.Title,
		Type:      string(e.Type),
		Category:  e.Category,
		Amount:    e.Amount.String(),
		Date:      e.Date.Format("2006-01-02"),
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateEvent godoc
// @Summary Create a calendar event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateEventRequest true "Event creation request"
// @Success 201 {object} EventResponse
// @Failure 400 {object} ProblemDetails
// @Router /events [post]
func (h *EventHandler) CreateEvent(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	event, err := h.eventService.CreateEvent(userID, service.CreateEventInput{
		Title:    req.Title,
		Type:     domain.TransactionType(req.Type),
		Category: req.Category,
		Amount:   amount,
		Date:     date,
		Notes:    req.Notes,
	})
	if err != nil {
		if resp := mapRecordValidationError(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Msg("Failed to create event")
		return NewInternalError(c, "Failed to create event")
	}

	return c.JSON(http.StatusCreated, toEventResponse(event))
}

// GetEvents godoc
// @Summary List calendar events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param type query string false "Filter by type (income or expense)"
// @Param category query string false "Filter by category"
// @Param startDate query string false "Filter from date (YYYY-MM-DD)"
// @Param endDate query string false "Filter until date (YYYY-MM-DD)"
// @Success 200 {array} EventResponse
// @Router /events [get]
func (h *EventHandler) GetEvents(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters := &domain.EventFilters{}
	if t := c.QueryParam("type"); t != "" {
		eventType := domain.TransactionType(t)
		if !eventType.Valid() {
			return NewValidationError(c, "Invalid type filter", []ValidationError{
				{Field: "type", Message: "Must be income or expense"},
			})
		}
		filters.Type = &eventType
	}
	if cat := c.QueryParam("category"); cat != "" {
		filters.Category = &cat
	}
	if start := c.QueryParam("startDate"); start != "" {
		parsed, err := parseDateParam(start)
		if err != nil {
			return NewValidationError(c, "Invalid startDate", []ValidationError{
				{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filters.StartDate = parsed
	}
	if end := c.QueryParam("endDate"); end != "" {
		parsed, err := parseDateParam(end)
		if err != nil {
			return NewValidationError(c, "Invalid endDate", []ValidationError{
				{Field: "endDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filters.EndDate = parsed
	}

	events, err := h.eventService.ListEvents(userID, filters)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list events")
		return NewInternalError(c, "Failed to list events")
	}

	responses := make([]EventResponse, len(events))
	for i, e := range events {
		responses[i] = toEventResponse(e)
	}
	return c.JSON(http.StatusOK, responses)
}

// GetEvent godoc
// @Summary Get a calendar event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} ProblemDetails
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid event ID", nil)
	}

	event, err := h.eventService.GetEvent(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return NewNotFoundError(c, "Event not found")
		}
		log.Error().Err(err).Msg("Failed to get event")
		return NewInternalError(c, "Failed to get event")
	}

	return c.JSON(http.StatusOK, toEventResponse(event))
}

// UpdateEvent godoc
// @Summary Update a calendar event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body UpdateEventRequest true "Event update request"
// @Success 200 {object} EventResponse
// @Failure 404 {object} ProblemDetails
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid event ID", nil)
	}

	var req UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateEventInput{
		Title:    req.Title,
		Category: req.Category,
		Notes:    req.Notes,
	}

	if req.Type != nil {
		eventType := domain.TransactionType(*req.Type)
		input.Type = &eventType
	}
	if req.Amount != nil {
		parsed, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		input.Amount = &parsed
	}
	if req.Date != nil {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		input.Date = &parsed
	}

	event, err := h.eventService.UpdateEvent(userID, id, input)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return NewNotFoundError(c, "Event not found")
		}
		if resp := mapRecordValidationError(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Msg("Failed to update event")
		return NewInternalError(c, "Failed to update event")
	}

	return c.JSON(http.StatusOK, toEventResponse(event))
}

// DeleteEvent godoc
// @Summary Delete a calendar event
// @Tags events
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid event ID", nil)
	}

	if err := h.eventService.DeleteEvent(userID, id); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return NewNotFoundError(c, "Event not found")
		}
		log.Error().Err(err).Msg("Failed to delete event")
		return NewInternalError(c, "Failed to delete event")
	}

	return c.NoContent(http.StatusNoContent)
}
