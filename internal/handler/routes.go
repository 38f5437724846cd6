package handler

import (
	"github.com/fintrack-app/fintrack-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, authHandler *AuthHandler, profileHandler *ProfileHandler, transactionHandler *TransactionHandler, goalHandler *GoalHandler, eventHandler *EventHandler, analyticsHandler *AnalyticsHandler, receiptHandler *ReceiptHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (protected)
	auth := api.Group("/auth")
	auth.Use(authMiddleware.Authenticate())
	auth.POST("/callback", authHandler.Callback)
	auth.GET("/me", authHandler.Me)

	// Profile routes (protected)
	profile := api.Group("/profile")
	profile.Use(authMiddleware.Authenticate())
	profile.GET("", profileHandler.GetProfile)
	profile.PUT("", profileHandler.UpdateProfile)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate())
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.POST("/:id/receipt", receiptHandler.UploadReceipt)
	transactions.GET("/:id/receipt", receiptHandler.GetReceiptURL)
	transactions.DELETE("/:id/receipt", receiptHandler.DeleteReceipt)

	// Goal routes (protected)
	goals := api.Group("/goals")
	goals.Use(authMiddleware.Authenticate())
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/allocate", goalHandler.AllocateToGoals)
	goals.GET("/allocate/preview", goalHandler.PreviewAllocation)

	// Calendar event routes (protected)
	events := api.Group("/events")
	events.Use(authMiddleware.Authenticate())
	events.POST("", eventHandler.CreateEvent)
	events.GET("", eventHandler.GetEvents)
	events.GET("/:id", eventHandler.GetEvent)
	events.PUT("/:id", eventHandler.UpdateEvent)
	events.DELETE("/:id", eventHandler.DeleteEvent)

	// Analytics routes (protected)
	analytics := api.Group("/analytics")
	analytics.Use(authMiddleware.Authenticate())
	analytics.GET("/summary", analyticsHandler.GetSummary)
}
