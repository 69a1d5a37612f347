package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alsetso/alsetmaps-backend/internal/config"
	"github.com/alsetso/alsetmaps-backend/internal/database"
	"github.com/alsetso/alsetmaps-backend/internal/geo"
	"github.com/alsetso/alsetmaps-backend/internal/handlers"
	applogger "github.com/alsetso/alsetmaps-backend/internal/logger"
	"github.com/alsetso/alsetmaps-backend/internal/middleware"
	"github.com/alsetso/alsetmaps-backend/internal/provider"
	"github.com/alsetso/alsetmaps-backend/internal/services"
	"github.com/alsetso/alsetmaps-backend/internal/telemetry"
	"github.com/alsetso/alsetmaps-backend/pkg/email"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

// @title AlsetMaps API
// @version 1.0.0
// @description Real estate search and property data API
// @host api.alsetmaps.com
// @BasePath /v1
// @schemes https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := applogger.Init(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer applogger.Sync()

	cfg := config.Load()

	// Initialize OpenTelemetry Tracer
	ctx := context.Background()
	tracerShutdown, err := telemetry.InitTracer(ctx, "alsetmaps-api", cfg.SigNozEndpoint)
	if err != nil {
		log.Printf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	// Initialize OpenTelemetry Metrics
	meterShutdown, err := telemetry.InitMeter(ctx, "alsetmaps-api", cfg.SigNozEndpoint)
	if err != nil {
		log.Printf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Error shutting down metrics: %v", err)
		}
	}()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	database.StartConnectionPoolMetricsCollector(ctx, db.DB, 15*time.Second)

	app := fiber.New(fiber.Config{
		AppName:      "AlsetMaps API",
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	// JSON structured access log
	app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","status":${status},"latency":"${latency}","ip":"${ip}","method":"${method}","path":"${path}","user_agent":"${ua}","error":"${error}"}` + "\n",
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		TimeZone:   "UTC",
	}))
	app.Use(telemetry.New(telemetry.Config{
		ServiceName: "alsetmaps-api",
	}))
	app.Use(middleware.PrometheusMiddleware())
	// Browser and mobile clients call the API from arbitrary origins
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowHeaders:     "Accept, Accept-Encoding, Authorization, Content-Type, DNT, Origin, User-Agent, X-Requested-With, X-API-Key",
		AllowCredentials: false,
		ExposeHeaders:    "Content-Length, Content-Type, Content-Disposition",
		MaxAge:           86400,
	}))

	setupRoutes(app, db, cfg)

	port := cfg.ServerPort
	if port == "" {
		port = "3000"
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

func setupRoutes(app *fiber.App, db *database.DB, cfg *config.Config) {
	// Health check endpoints for k8s probes
	app.Get("/healthz", handlers.HealthCheck)
	app.Get("/v1/healthz", handlers.HealthCheck)
	app.Get("/v1/health", handlers.HealthCheck)
	app.Get("/v1/readiness", handlers.ReadinessCheck(db))
	app.Get("/v1/liveness", handlers.LivenessCheck)

	// Prometheus scrape endpoint, private networks only
	app.Get("/metrics", middleware.InternalOnly(), middleware.PrometheusHandler())

	// Services
	providerClient := provider.NewClient(cfg.PropertyDataBaseURL, cfg.PropertyDataAPIKey)
	geocoder := geo.NewGeocoder(cfg, db)
	cacheService := services.NewPropertyCacheService(db, providerClient)
	creditService := services.NewCreditService(db)
	searchService := services.NewSearchService(cfg, creditService, cacheService, geocoder)
	pinService := services.NewPinService(db, cacheService, geocoder)
	agentService := services.NewAgentService(db)
	intentService := services.NewIntentService(db)
	refinanceService := services.NewRefinanceService(db, email.NewEmailService(cfg))
	statsService := services.NewStatsService(cacheService)

	authRequired := middleware.AuthRequired(cfg)
	optionalAuth := middleware.OptionalAuth(cfg)
	staffRequired := middleware.StaffRequired(cfg, db)

	// API v1 group
	v1 := app.Group("/v1")

	search := v1.Group("/search", authRequired)
	handlers.SetupSearchRoutes(search, searchService)

	properties := v1.Group("/properties")
	handlers.SetupPropertyRoutes(properties, authRequired, cacheService, statsService)

	pins := v1.Group("/pins", authRequired)
	handlers.SetupPinRoutes(pins, pinService)

	credits := v1.Group("/credits", authRequired)
	handlers.SetupCreditRoutes(credits, creditService)

	agents := v1.Group("/agents")
	handlers.SetupAgentRoutes(agents, optionalAuth, staffRequired, agentService)

	intents := v1.Group("/intents")
	handlers.SetupIntentRoutes(intents, authRequired, intentService)

	refinance := v1.Group("/refinance")
	handlers.SetupRefinanceRoutes(refinance, optionalAuth, staffRequired, refinanceService)
}
