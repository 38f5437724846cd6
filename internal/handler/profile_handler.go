package handler

import (
	"net/http"
	"strings"

	"github.com/fintrack-app/fintrack-backend/internal/middleware"
	"github.com/fintrack-app/fintrack-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProfileHandler handles user profile HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest represents the update profile request body
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// GetProfile godoc
// @Summary Get the current user's profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	user, err := h.profileService.GetProfile(userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load profile")
		return NewNotFoundError(c, "User not found")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile update request"
// @Success 200 {object} UserResponse
// @Failure 400 {object} ProblemDetails
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	}

	user, err := h.profileService.UpdateProfile(userID, name)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update profile")
		return NewInternalError(c, "Failed to update profile")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}
