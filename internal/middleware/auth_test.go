package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestGetAuth0ID(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name     string
		setup    func(c echo.Context)
		expected string
	}{
		{
			name: "returns auth0 id when present",
			setup: func(c echo.Context) {
				ctx := context.WithValue(c.Request().Context(), Auth0IDKey, "auth0|12345")
				c.SetRequest(c.Request().WithContext(ctx))
			},
			expected: "auth0|12345",
		},
		{
			name:     "returns empty string when not present",
			setup:    func(c echo.Context) {},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			tt.setup(c)

			result := GetAuth0ID(c)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestGetClaims(t *testing.T) {
	e := echo.New()

	t.Run("returns claims when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		claims := &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{
				Subject: "auth0|test",
			},
		}
		ctx := context.WithValue(c.Request().Context(), ClaimsKey, claims)
		c.SetRequest(c.Request().WithContext(ctx))

		result := GetClaims(c)
		if result == nil {
			t.Fatal("Expected claims, got nil")
		}
		if result.RegisteredClaims.Subject != "auth0|test" {
			t.Errorf("Expected subject 'auth0|test', got %q", result.RegisteredClaims.Subject)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		result := GetClaims(c)
		if result != nil {
			t.Error("Expected nil, got claims")
		}
	})
}

func TestGetCustomClaims(t *testing.T) {
	e := echo.New()

	t.Run("returns custom claims when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		customClaims := &CustomClaims{
			Email:   "test@example.com",
			Name:    "Test User",
			Picture: "https://example.com/pic.jpg",
		}
		claims := &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{
				Subject: "auth0|test",
			},
			CustomClaims: customClaims,
		}
		ctx := context.WithValue(c.Request().Context(), ClaimsKey, claims)
		c.SetRequest(c.Request().WithContext(ctx))

		result := GetCustomClaims(c)
		if result == nil {
			t.Fatal("Expected custom claims, got nil")
		}
		if result.Email != "test@example.com" {
			t.Errorf("Expected email 'test@example.com', got %q", result.Email)
		}
		if result.Name != "Test User" {
			t.Errorf("Expected name 'Test User', got %q", result.Name)
		}
	})

	t.Run("returns nil when claims not present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		result := GetCustomClaims(c)
		if result != nil {
			t.Error("Expected nil, got custom claims")
		}
	})
}

func TestCustomClaims_Validate(t *testing.T) {
	claims := &CustomClaims{
		Email: "test@example.com",
		Name:  "Test",
	}

	err := claims.Validate(context.Background())
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestGetUserID(t *testing.T) {
	e := echo.New()
	userID := uuid.New()

	tests := []struct {
		name     string
		setup    func(c echo.Context)
		expected uuid.UUID
	}{
		{
			name: "returns user id when present",
			setup: func(c echo.Context) {
				ctx := context.WithValue(c.Request().Context(), UserIDKey, userID)
				c.SetRequest(c.Request().WithContext(ctx))
			},
			expected: userID,
		},
		{
			name:     "returns nil uuid when not present",
			setup:    func(c echo.Context) {},
			expected: uuid.Nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			tt.setup(c)

			result := GetUserID(c)
			if result != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestAuthMiddleware_MissingAuthorizationHeader(t *testing.T) {
	e := echo.New()

	m, err := NewAuthMiddleware("test.auth0.com", "https://api.fintrack.app", nil)
	if err != nil {
		t.Fatalf("NewAuthMiddleware failed: %v", err)
	}

	handler := m.Authenticate()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = handler(c)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("Expected HTTPError, got %T", err)
	}

	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", httpErr.Code)
	}
}

func TestAuthMiddleware_InvalidAuthorizationHeaderFormat(t *testing.T) {
	e := echo.New()

	m, err := NewAuthMiddleware("test.auth0.com", "https://api.fintrack.app", nil)
	if err != nil {
		t.Fatalf("NewAuthMiddleware failed: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "invalid-token"},
		{"wrong scheme", "Basic token123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := m.Authenticate()(func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := handler(c)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}

			httpErr, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("Expected HTTPError, got %T", err)
			}

			if httpErr.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", httpErr.Code)
			}
		})
	}
}

// MockUserProvider implements UserProvider for testing
type MockUserProvider struct {
	userID uuid.UUID
	err    error
}

func (m *MockUserProvider) GetUserIDByAuth0ID(auth0ID string) (uuid.UUID, error) {
	if m.err != nil {
		return uuid.Nil, m.err
	}
	return m.userID, nil
}

func TestAuthMiddleware_UserInjection(t *testing.T) {
	t.Run("provider lookup returns user id", func(t *testing.T) {
		userID := uuid.New()
		provider := &MockUserProvider{userID: userID}

		var _ UserProvider = provider

		id, err := provider.GetUserIDByAuth0ID("auth0|test")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if id != userID {
			t.Errorf("Expected user ID %s, got %s", userID, id)
		}
	})

	t.Run("provider error propagates", func(t *testing.T) {
		provider := &MockUserProvider{err: echo.NewHTTPError(http.StatusUnauthorized, "user not found")}

		_, err := provider.GetUserIDByAuth0ID("auth0|invalid")
		if err == nil {
			t.Fatal("Expected error, got nil")
		}
	})
}
