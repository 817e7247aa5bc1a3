package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	httpapi "equiprent-backend/internal/api/http"
	"equiprent-backend/internal/config"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/repository/postgres"
	"equiprent-backend/internal/service"
	"equiprent-backend/migrations"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting EquipRent Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Apply schema migrations
	if err := migrations.Up(db); err != nil {
		logger.Error("Failed to apply migrations", "error", err)
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	logger.Info("Schema migrations applied")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services
	productSvc := service.NewProductService(store.ProductRepository)
	availabilitySvc := service.NewAvailabilityService(
		store.ProductRepository,
		store.OrderRepository,
		store.FreezeRepository,
		store.VersionRepository,
	)
	orderSvc := service.NewOrderService(
		store.OrderRepository,
		store.ProductRepository,
		cfg.CommitTimeout(),
	)
	returnSvc := service.NewReturnService(
		store.OrderRepository,
		store.VersionRepository,
	)
	freezeSvc := service.NewFreezeService(
		store.FreezeRepository,
		store.ProductRepository,
	)

	// Set up HTTP server
	router := mux.NewRouter()
	httpapi.RegisterRoutes(router, productSvc, availabilitySvc, orderSvc, returnSvc, freezeSvc)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
