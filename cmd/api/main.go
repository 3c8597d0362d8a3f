package main

import (
	"os"

	"github.com/caveo/pos-api/internal/application/service"
	"github.com/caveo/pos-api/internal/config"
	"github.com/caveo/pos-api/internal/infrastructure/database"
	"github.com/caveo/pos-api/internal/infrastructure/repository"
	"github.com/caveo/pos-api/internal/presentation/http/handler"
	"github.com/caveo/pos-api/internal/presentation/http/routes"
	"github.com/caveo/pos-api/pkg/printer"
	"github.com/caveo/pos-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	// Load configuration
	cfg := config.Load(log)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetLevel(logrus.DebugLevel)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, log); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	// Seed default data
	if err := database.SeedDefaultData(db, log); err != nil {
		log.WithError(err).Warn("Failed to seed default data")
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	unitRepo := repository.NewPackagingUnitRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	terminal := service.NewSimulatedTerminal(cfg.Terminal.MinDelay, cfg.Terminal.MaxDelay)
	authService := service.NewAuthService(userRepo, jwtManager)
	productService := service.NewProductService(productRepo, unitRepo)
	saleService := service.NewSaleService(saleRepo, receiptRepo, unitRepo, userRepo, terminal)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.WithError(err).Warn("Failed to initialize printer")
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, receiptRepo, cfg.Printer.Type, cfg.Printer.Width, cfg.Printer.StoreName)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Product: handler.NewProductHandler(productService),
		Sale:    handler.NewSaleHandler(saleService),
		Printer: handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Log:             log,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.WithFields(logrus.Fields{
		"service": cfg.App.Name,
		"port":    port,
		"env":     cfg.App.Env,
	}).Info("Starting server")

	if err := router.Run(":" + port); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
}
