package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/outgo-app/outgo-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	loginLimiter *middleware.RateLimiter,
	authHandler *AuthHandler,
	expenseHandler *ExpenseHandler,
	budgetHandler *BudgetHandler,
	recurringHandler *RecurringHandler,
	analyticsHandler *AnalyticsHandler,
	categoryHandler *CategoryHandler,
	wsHandler *WebSocketHandler,
) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes; register/login are public and rate limited per client IP
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register, middleware.RateLimitMiddleware(loginLimiter))
	auth.POST("/login", authHandler.Login, middleware.RateLimitMiddleware(loginLimiter))
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout, authMiddleware.Authenticate())
	auth.GET("/me", authHandler.Me, authMiddleware.Authenticate())
	auth.PUT("/me", authHandler.UpdateMe, authMiddleware.Authenticate())
	auth.POST("/change-password", authHandler.ChangePassword, authMiddleware.Authenticate())

	// Expense routes (protected)
	expenses := api.Group("/expenses")
	expenses.Use(authMiddleware.Authenticate())
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.ListExpenses)
	expenses.GET("/export/csv", expenseHandler.ExportCSV)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)
	expenses.POST("/:id/receipt", expenseHandler.UploadReceipt)
	expenses.GET("/:id/receipt", expenseHandler.GetReceipt)

	// Budget routes (protected)
	budgets := api.Group("/budgets")
	budgets.Use(authMiddleware.Authenticate())
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.ListBudgets)
	budgets.GET("/:category", budgetHandler.GetBudget)
	budgets.PUT("/:category", budgetHandler.UpdateBudget)
	budgets.DELETE("/:category", budgetHandler.DeleteBudget)

	// Recurring expense routes (protected)
	recurring := api.Group("/recurring-expenses")
	recurring.Use(authMiddleware.Authenticate())
	recurring.POST("", recurringHandler.CreateRecurring)
	recurring.GET("", recurringHandler.ListRecurring)
	recurring.POST("/process", recurringHandler.ProcessRecurring)
	recurring.GET("/:id", recurringHandler.GetRecurring)
	recurring.PUT("/:id", recurringHandler.UpdateRecurring)
	recurring.DELETE("/:id", recurringHandler.DeleteRecurring)

	// Analytics routes (protected)
	analytics := api.Group("/analytics")
	analytics.Use(authMiddleware.Authenticate())
	analytics.GET("/summary", analyticsHandler.GetSummary)
	analytics.GET("/by-category", analyticsHandler.GetByCategory)
	analytics.GET("/by-month", analyticsHandler.GetByMonth)
	analytics.GET("/budget-status", analyticsHandler.GetBudgetStatus)

	// Category routes (protected)
	categories := api.Group("/categories")
	categories.Use(authMiddleware.Authenticate())
	categories.GET("", categoryHandler.ListCategories)

	// WebSocket change feed; authenticates via token query parameter
	e.GET("/ws", wsHandler.HandleWS)
}
