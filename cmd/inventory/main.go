package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/tair/commerce-core/internal/inventory"
	httpDelivery "github.com/tair/commerce-core/internal/inventory/delivery/http"
	"github.com/tair/commerce-core/internal/inventory/domain"
	"github.com/tair/commerce-core/internal/inventory/usecase/command"
	"github.com/tair/commerce-core/kafka"
	"github.com/tair/commerce-core/pkg/database"
	"github.com/tair/commerce-core/pkg/logger"
	"github.com/tair/commerce-core/pkg/tracing"
)

const sweepInterval = 10 * time.Minute

func main() {
	_ = godotenv.Load()

	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "inventory-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting inventory service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "commercedb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&domain.InventoryItem{},
		&domain.InventoryTransaction{},
		&domain.InventoryReservation{},
		&domain.InventoryAlert{},
	); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Kafka publisher for stock alerts
	var publisher *kafka.Publisher
	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	publisher, err = kafka.NewPublisher(brokers)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka unavailable, stock alert events disabled")
		publisher = nil
	} else {
		defer publisher.Close()
	}

	// Transaction references resolve through per-kind lookups registered here.
	orderRepo := inventory.ProvideOrderRepository(db)
	registry := domain.NewReferenceRegistry()
	registry.Register(domain.ReferenceOrder, func(ctx context.Context, id uint) (interface{}, error) {
		return orderRepo.FindByID(ctx, id)
	})

	// Initialize handler with Wire DI
	handler, err := inventory.InitializeHTTPHandler(db, publisher, registry)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inventoryRepo := inventory.ProvideInventoryRepository(db)
	notifier := inventory.ProvideAlertNotifier(publisher)

	// Background sweep returns expired holds to available stock.
	sweeper := command.NewReleaseExpiredHandler(inventoryRepo, notifier)
	go runSweeper(ctx, sweeper)

	// Consume order status events: paid orders fulfill their reservations,
	// cancelled orders release them.
	if publisher != nil {
		startOrderConsumer(ctx, brokers, inventoryRepo, notifier)
	}

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8082")
	go startHTTPServer(handler, sqlDB, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func runSweeper(ctx context.Context, sweeper *command.ReleaseExpiredHandler) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := sweeper.Handle(ctx)
			if err != nil {
				logger.Logger.Error().Err(err).Msg("Reservation sweep failed")
				continue
			}
			if count > 0 {
				logger.Logger.Info().Int("released", count).Msg("Reservation sweep completed")
			}
		}
	}
}

func startOrderConsumer(ctx context.Context, brokers []string, repo domain.InventoryRepository, notifier command.AlertNotifier) {
	groupID := getEnv("KAFKA_GROUP_ID", "inventory-service")
	consumer, err := kafka.NewConsumer(brokers, groupID, []string{kafka.TopicOrderEvents})
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka consumer unavailable, order events disabled")
		return
	}

	fulfill := command.NewFulfillReservationsHandler(repo)
	release := command.NewReleaseReservationsHandler(repo, notifier)

	consumer.RegisterHandler(kafka.EventTypeOrderPaid, func(ctx context.Context, event kafka.OrderStatusChangedEvent) error {
		_, err := fulfill.Handle(ctx, command.FulfillReservationsCommand{OrderID: event.OrderID})
		return err
	})
	consumer.RegisterHandler(kafka.EventTypeOrderCancelled, func(ctx context.Context, event kafka.OrderStatusChangedEvent) error {
		_, err := release.Handle(ctx, command.ReleaseReservationsCommand{OrderID: event.OrderID})
		return err
	})

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to start Kafka consumer")
	}
}

func startHTTPServer(handler *httpDelivery.InventoryHandler, db *sql.DB, port string) {
	// Setup router
	router := mux.NewRouter()

	// Middlewares: recovery, logging, tracing, metrics
	httpDelivery.RegisterMiddlewares(router)

	// Register routes
	handler.RegisterRoutes(router)

	// Health check endpoint
	handler.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Msg("HTTP server started")

	if err := http.ListenAndServe(":"+port, c.Handler(router)); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
