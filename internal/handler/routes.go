package handler

import (
	"github.com/centsible/centsible-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes. syncMiddleware validates the token
// without resolving a profile; the sync route must work before the profile
// exists.
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	syncMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *AuthHandler,
	profileHandler *ProfileHandler,
	transactionHandler *TransactionHandler,
	budgetHandler *BudgetHandler,
	savingsHandler *SavingsHandler,
	categoryHandler *CategoryHandler,
	settingsHandler *SettingsHandler,
	webSocketHandler *WebSocketHandler,
) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (token required, profile optional)
	auth := api.Group("/auth")
	auth.Use(syncMiddleware.Authenticate())
	auth.POST("/sync", authHandler.Sync)
	auth.GET("/me", authHandler.Me)

	// Profile routes (protected)
	profile := api.Group("/profile")
	profile.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	profile.GET("", profileHandler.GetProfile)
	profile.PUT("", profileHandler.UpdateProfile)
	profile.POST("/avatar", profileHandler.UploadAvatar)
	profile.GET("/avatar", profileHandler.GetAvatarURL)
	profile.DELETE("/avatar", profileHandler.DeleteAvatar)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/archived", transactionHandler.GetArchivedTransactions)
	transactions.POST("/bulk", transactionHandler.AddBulkTransactions)
	transactions.POST("/archive", transactionHandler.ArchiveOldTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget routes (protected)
	budgets := api.Group("/budgets")
	budgets.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Savings routes (protected)
	savings := api.Group("/savings")
	savings.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	savings.POST("", savingsHandler.CreateSavings)
	savings.GET("", savingsHandler.GetSavings)
	savings.PUT("/:id", savingsHandler.UpdateSavings)
	savings.DELETE("/:id", savingsHandler.DeleteSavings)

	// Category routes (protected)
	categories := api.Group("/categories")
	categories.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Settings routes (protected)
	settings := api.Group("/settings")
	settings.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("", settingsHandler.UpdateSettings)
	settings.POST("/recompute-periods", settingsHandler.RecomputePeriods)

	// WebSocket endpoint (token via query parameter)
	e.GET("/ws", webSocketHandler.HandleWS)
}
