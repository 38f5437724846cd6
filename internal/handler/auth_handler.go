package handler

import (
	"net/http"
	"time"

	"github.com/fintrack-app/fintrack-backend/internal/domain"
	"github.com/fintrack-app/fintrack-backend/internal/middleware"
	"github.com/fintrack-app/fintrack-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Name       *string `json:"name"`
	PictureURL *string `json:"pictureUrl"`
	CreatedAt  string  `json:"createdAt"`
	LastLogin  *string `json:"lastLogin,omitempty"`
}

func toUserResponse(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:         u.ID.String(),
		Email:      u.Email,
		Name:       u.Name,
		PictureURL: u.PictureURL,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
	if u.LastLogin != nil {
		formatted := u.LastLogin.Format(time.RFC3339)
		resp.LastLogin = &formatted
	}
	return resp
}

// Callback handles the Auth0 callback after successful authentication.
// The frontend calls this after receiving the Auth0 token; the user row
// is created on first sight of the Auth0 subject.
// POST /auth/callback
func (h *AuthHandler) Callback(c echo.Context) error {
	// Auth0 ID comes from the validated JWT, set by the auth middleware
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		log.Error().Msg("No Auth0 ID in context - middleware may not be configured")
		return NewUnauthorizedError(c, "Authentication required")
	}

	customClaims := middleware.GetCustomClaims(c)
	var email, name, picture string
	if customClaims != nil {
		email = customClaims.Email
		name = customClaims.Name
		picture = customClaims.Picture
	}

	if email == "" {
		log.Error().Str("auth0_id", auth0ID).Msg("No email in JWT claims")
		return NewValidationError(c, "Email is required for authentication", []ValidationError{
			{Field: "email", Message: "Email claim is missing from token"},
		})
	}

	var namePtr, picturePtr *string
	if name != "" {
		namePtr = &name
	}
	if picture != "" {
		picturePtr = &picture
	}

	user, err := h.authService.HandleCallback(auth0ID, email, namePtr, picturePtr)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to authenticate user")
		return NewInternalError(c, "Failed to authenticate user")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Me returns the current authenticated user's information
// GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	user, err := h.authService.GetUserByAuth0ID(auth0ID)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to load user")
		return NewNotFoundError(c, "User not found")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}
