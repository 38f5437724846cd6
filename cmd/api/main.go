package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fintrack-app/fintrack-backend/internal/config"
	"github.com/fintrack-app/fintrack-backend/internal/handler"
	"github.com/fintrack-app/fintrack-backend/internal/middleware"
	"github.com/fintrack-app/fintrack-backend/internal/repository/postgres"
	"github.com/fintrack-app/fintrack-backend/internal/repository/storage"
	"github.com/fintrack-app/fintrack-backend/internal/service"
	"github.com/fintrack-app/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Apply schema migrations before opening the pool
	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	goalRepo := postgres.NewGoalRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)

	// Initialize websocket hub
	hub := websocket.NewHub()

	// Initialize receipt storage (optional; disabled without S3 credentials)
	var receiptService *service.ReceiptService
	if cfg.StorageConfigured() {
		objectRepo, err := storage.NewS3ObjectRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
		receiptService = service.NewReceiptService(objectRepo)
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Receipt storage enabled")
	} else {
		receiptService = service.NewReceiptService(nil)
		log.Warn().Msg("Receipt storage disabled (S3 not configured)")
	}

	// Initialize services
	authService := service.NewAuthService(userRepo)
	profileService := service.NewProfileService(userRepo)
	transactionService := service.NewTransactionService(transactionRepo, hub)
	goalService := service.NewGoalService(goalRepo, hub)
	eventService := service.NewEventService(eventRepo, hub)
	analyticsService := service.NewAnalyticsService(transactionRepo)
	allocationService := service.NewAllocationService(goalRepo, transactionRepo, hub)

	// Create user provider adapter for auth middleware and websocket auth
	userProvider := &userProviderAdapter{authService: authService}

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, userProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// Initialize websocket JWT validator
	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, userProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create websocket JWT validator")
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	goalHandler := handler.NewGoalHandler(goalService, allocationService)
	eventHandler := handler.NewEventHandler(eventService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	receiptHandler := handler.NewReceiptHandler(receiptService, transactionService)
	wsHandler := handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Per-user rate limiting
	e.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// WebSocket endpoint (token auth via query parameter)
	e.GET("/ws", wsHandler.HandleWS)

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, authHandler, profileHandler, transactionHandler, goalHandler, eventHandler, analyticsHandler, receiptHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// userProviderAdapter adapts AuthService to middleware.UserProvider and
// websocket.UserLookup
type userProviderAdapter struct {
	authService *service.AuthService
}

// GetUserIDByAuth0ID implements middleware.UserProvider
func (a *userProviderAdapter) GetUserIDByAuth0ID(auth0ID string) (uuid.UUID, error) {
	user, err := a.authService.GetUserByAuth0ID(auth0ID)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
