package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/outgo-app/outgo-backend/db"
	_ "github.com/outgo-app/outgo-backend/docs"
	"github.com/outgo-app/outgo-backend/internal/config"
	"github.com/outgo-app/outgo-backend/internal/handler"
	"github.com/outgo-app/outgo-backend/internal/middleware"
	"github.com/outgo-app/outgo-backend/internal/repository/postgres"
	"github.com/outgo-app/outgo-backend/internal/repository/storage"
	"github.com/outgo-app/outgo-backend/internal/service"
	"github.com/outgo-app/outgo-backend/internal/websocket"
)

// @title Outgo API
// @version 1.0
// @description Expense tracking backend: expenses, budgets, recurring templates, and analytics.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
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

	// Initialize Sentry if a DSN is configured
	sentryEnabled := cfg.SentryDSN != ""
	if sentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Env,
			SampleRate:  1.0,
		}); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Sentry")
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Apply pending schema migrations
	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	log.Info().Msg("Migrations applied")

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
	expenseRepo := postgres.NewExpenseRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	recurringRepo := postgres.NewRecurringRepository(pool)

	// Receipt storage is optional; uploads are disabled without a bucket
	var receiptRepo storage.ReceiptRepository
	if cfg.S3.Bucket != "" {
		s3Repo, err := storage.NewS3ReceiptRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize receipt storage")
		}
		receiptRepo = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Receipt storage enabled")
	} else {
		log.Warn().Msg("S3_BUCKET not set; receipt uploads disabled")
	}

	// Initialize services
	tokenService := service.NewTokenService(
		[]byte(cfg.JWTSecret),
		cfg.JWTIssuer,
		cfg.JWTAudience,
		time.Duration(cfg.AccessTokenTTL)*time.Minute,
		time.Duration(cfg.RefreshTokenTTL)*time.Hour,
	)
	authService := service.NewAuthService(userRepo, tokenService)
	expenseService := service.NewExpenseService(expenseRepo)
	budgetService := service.NewBudgetService(budgetRepo)
	recurringService := service.NewRecurringService(recurringRepo, expenseRepo)
	analyticsService := service.NewAnalyticsService(expenseRepo, budgetRepo)
	exportService := service.NewExportService(expenseRepo)
	receiptService := service.NewReceiptService(expenseRepo, receiptRepo)

	// WebSocket hub feeds real-time change events to connected clients
	hub := websocket.NewHub()
	expenseService.SetEventPublisher(hub)
	budgetService.SetEventPublisher(hub)
	recurringService.SetEventPublisher(hub)

	wsValidator, err := websocket.NewJWTValidator([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience, tokenService.Blacklist())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create WebSocket token validator")
	}

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience, tokenService.Blacklist())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	// Rate limiter guards the credential endpoints
	loginLimiter := middleware.NewRateLimiter()
	defer loginLimiter.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	expenseHandler := handler.NewExpenseHandler(expenseService, exportService, receiptService)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	recurringHandler := handler.NewRecurringHandler(recurringService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	categoryHandler := handler.NewCategoryHandler()
	wsHandler := handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Server errors go to Sentry before the default handler renders them
	defaultErrorHandler := e.DefaultHTTPErrorHandler
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if sentryEnabled {
			if he, ok := err.(*echo.HTTPError); !ok || he.Code >= http.StatusInternalServerError {
				sentry.CaptureException(err)
			}
		}
		defaultErrorHandler(err, c)
	}

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

	// Swagger UI
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, loginLimiter, authHandler, expenseHandler, budgetHandler, recurringHandler, analyticsHandler, categoryHandler, wsHandler)

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
