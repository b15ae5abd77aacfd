package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/centsible/centsible-backend/internal/config"
	"github.com/centsible/centsible-backend/internal/handler"
	"github.com/centsible/centsible-backend/internal/middleware"
	"github.com/centsible/centsible-backend/internal/repository/postgres"
	"github.com/centsible/centsible-backend/internal/repository/storage"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/centsible/centsible-backend/internal/websocket"
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
	profileRepo := postgres.NewProfileRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	savingsRepo := postgres.NewSavingsRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)

	// Initialize avatar storage (optional)
	var avatarRepo storage.AvatarRepository
	if cfg.S3.AccessKeyID != "" {
		s3Repo, err := storage.NewS3AvatarRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize avatar storage")
		}
		avatarRepo = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Avatar storage configured")
	} else {
		log.Warn().Msg("Avatar storage not configured, avatar endpoints disabled")
	}

	// WebSocket hub for live dashboard updates
	hub := websocket.NewHub()

	// Initialize services
	profileService := service.NewProfileService(profileRepo)
	aggregateService := service.NewAggregateService(transactionRepo, budgetRepo, savingsRepo, categoryRepo)
	transactionService := service.NewTransactionService(transactionRepo, settingsRepo, aggregateService, hub)
	budgetService := service.NewBudgetService(budgetRepo, transactionRepo, hub)
	savingsService := service.NewSavingsService(savingsRepo, hub)
	categoryService := service.NewCategoryService(categoryRepo)
	settingsService := service.NewSettingsService(settingsRepo, transactionRepo, aggregateService)
	avatarService := service.NewAvatarService(avatarRepo, profileRepo)

	// Profile provider adapter for auth middleware and WebSocket auth
	profileProvider := &profileProviderAdapter{profileService: profileService}

	// Auth middleware: one instance resolves the profile, the sync variant
	// only validates the token
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.AuthDomain, cfg.AuthAudience, profileProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}
	syncMiddleware, err := middleware.NewAuthMiddleware(cfg.AuthDomain, cfg.AuthAudience, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create sync middleware")
	}

	// Per-profile rate limiter
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// WebSocket token validator
	wsValidator, err := websocket.NewJWTValidator(cfg.AuthDomain, cfg.AuthAudience, profileProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create WebSocket validator")
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(profileService)
	profileHandler := handler.NewProfileHandler(profileService, avatarService)
	transactionHandler := handler.NewTransactionHandler(transactionService, cfg.ArchiveRecalculateBudgets)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	savingsHandler := handler.NewSavingsHandler(savingsService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	webSocketHandler := handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins)

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

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, syncMiddleware, rateLimiter,
		authHandler, profileHandler, transactionHandler, budgetHandler,
		savingsHandler, categoryHandler, settingsHandler, webSocketHandler)

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

// profileProviderAdapter adapts ProfileService to middleware.ProfileProvider
// and websocket.ProfileLookup
type profileProviderAdapter struct {
	profileService *service.ProfileService
}

// GetProfileByUserID implements middleware.ProfileProvider
func (a *profileProviderAdapter) GetProfileByUserID(userID string) (uuid.UUID, error) {
	profile, err := a.profileService.GetProfileByUserID(userID)
	if err != nil {
		return uuid.Nil, err
	}
	return profile.ID, nil
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
