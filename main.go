package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/affistack/affiliate_backend/config"
	"github.com/affistack/affiliate_backend/controllers"
	"github.com/affistack/affiliate_backend/middleware"
	"github.com/affistack/affiliate_backend/repositories"
	"github.com/affistack/affiliate_backend/routes"
	"github.com/affistack/affiliate_backend/services"
	"github.com/affistack/affiliate_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis
	redisClient := config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()
	db := config.GetDatabase(client)

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowedDomains: []string{"*"}, // Configure this based on your needs
		AllowInlineJS:  false,
	}))

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Affiliate Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	e.Use(httpsRedirect())

	// Initialize repositories
	commissionRepo := repositories.NewCommissionRepository(db)
	adjustmentRepo := repositories.NewAdjustmentRepository(db)
	marketerRepo := repositories.NewMarketerRepository(db)
	productRepo := repositories.NewProductRepository(db)

	// Initialize shared services
	notifier := services.NewHubNotifier(wsHub, db)
	balanceCache := services.NewBalanceCache(redisClient)

	commissionService := services.NewCommissionService(commissionRepo, adjustmentRepo, marketerRepo, productRepo, notifier)
	statusService := services.NewStatusService(commissionRepo, adjustmentRepo, notifier, balanceCache)
	clearanceService := services.NewClearanceService(commissionRepo, statusService)
	adjustmentService := services.NewAdjustmentService(commissionRepo, adjustmentRepo, notifier, balanceCache)
	balanceService := services.NewBalanceService(commissionRepo, adjustmentRepo, balanceCache)

	// Initialize controllers
	ctrl := routes.Controllers{
		Auth:       controllers.NewAuthController(db),
		Commission: controllers.NewCommissionController(commissionService, statusService),
		Adjustment: controllers.NewAdjustmentController(adjustmentService),
		Balance:    controllers.NewBalanceController(balanceService),
		Scheduler:  controllers.NewSchedulerController(clearanceService),
		Marketer:   controllers.NewMarketerController(marketerRepo),
		Product:    controllers.NewProductController(productRepo),
	}

	// Setup routes
	routes.SetupRoutes(e, ctrl, wsHub)

	// Start the clearance period checker in a goroutine
	go func() {
		interval := time.Hour
		if raw := os.Getenv("CLEARANCE_CHECK_INTERVAL_MINUTES"); raw != "" {
			if minutes, err := time.ParseDuration(raw + "m"); err == nil && minutes > 0 {
				interval = minutes
			}
		}
		for {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			result, err := clearanceService.ProcessAutomatedCommissionUpdates(ctx)
			cancel()
			if err != nil {
				log.Printf("Automated commission update run failed: %v", err)
			} else if result.Result.Approved > 0 || len(result.Result.Errors) > 0 {
				log.Printf("Automated commission update: %s (%d errors)", result.Summary, len(result.Result.Errors))
			}
			time.Sleep(interval)
		}
	}()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}

func httpsRedirect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Forwarded-Proto") == "http" {
				return c.Redirect(301, "https://"+c.Request().Host+c.Request().RequestURI)
			}
			return next(c)
		}
	}
}
