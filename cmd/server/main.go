package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"

	"github.com/mlsechub/modelhub/internal/config"
	"github.com/mlsechub/modelhub/internal/database"
	"github.com/mlsechub/modelhub/internal/handlers"
	"github.com/mlsechub/modelhub/internal/middleware"
	"github.com/mlsechub/modelhub/internal/services"
	"github.com/mlsechub/modelhub/internal/store"

	_ "github.com/mlsechub/modelhub/docs/api" // Swagger docs
)

// @title AI Model Hub API
// @version 2.0.0
// @description Catalog service for security threat detection models
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/mlsechub/modelhub

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the catalog when empty
	if err := database.Seed(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	stores := store.NewStores(db)
	drafts := services.NewDraftService()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("modelhub")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Create handlers
	modelHandler := &handlers.ModelHandler{Stores: stores}
	draftHandler := &handlers.DraftHandler{Stores: stores, Drafts: drafts}
	docHandler := &handlers.DocHandler{Stores: stores}
	feedbackHandler := &handlers.FeedbackHandler{Stores: stores}
	siteHandler := &handlers.SiteHandler{Config: cfg, DB: db, Stores: stores}

	app.Get("/health", siteHandler.GetHealth)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.APIVersion())

	// Catalog routes (public GET)
	api.Get("/home", siteHandler.GetHome)
	api.Get("/notices", siteHandler.GetNotices)
	api.Get("/models", modelHandler.ListModels)
	api.Get("/models/:id", modelHandler.GetModel)
	api.Get("/models/:id/download", modelHandler.DownloadModel)
	api.Get("/docs", docHandler.ListDocs)
	api.Get("/docs/:id", docHandler.GetDoc)
	api.Get("/docs/:id/attachment", docHandler.GetDocAttachment)

	// Authenticated user routes
	api.Post("/models/import", middleware.AuthUser(cfg), modelHandler.ImportModelConfig)
	api.Get("/models/:id/draft", middleware.AuthUser(cfg), draftHandler.GetDraft)
	api.Put("/models/:id/draft", middleware.AuthUser(cfg), draftHandler.ReplaceDraft)
	api.Delete("/models/:id/draft", middleware.AuthUser(cfg), draftHandler.ResetDraft)
	api.Get("/models/:id/draft/export", middleware.AuthUser(cfg), draftHandler.ExportDraft)
	api.Post("/models/:id/feedback", middleware.AuthUser(cfg), feedbackHandler.CreateFeedback)
	api.Post("/docs", middleware.AuthUser(cfg), docHandler.CreateDoc)

	// Admin-only management routes
	api.Post("/models", middleware.AuthAdmin(cfg), modelHandler.RegisterModel)
	api.Put("/models/:id", middleware.AuthAdmin(cfg), modelHandler.UpdateModel)
	api.Put("/models/:id/status", middleware.AuthAdmin(cfg), modelHandler.UpdateModelStatus)
	api.Delete("/models/:id", middleware.AuthAdmin(cfg), modelHandler.DeleteModel)
	api.Get("/feedback", middleware.AuthAdmin(cfg), feedbackHandler.ListFeedback)
	api.Get("/stats", middleware.AuthAdmin(cfg), siteHandler.GetStats)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	if cfg.AuthDisabled {
		log.Printf("Authorization disabled; requests attributed to %q", cfg.DevUser)
	} else {
		log.Printf("Authorizer will be initialized on first authenticated request")
	}

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}
