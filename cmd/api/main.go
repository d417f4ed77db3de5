package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expensetracker/internal/config"
	"expensetracker/internal/events"
	"expensetracker/internal/events/amqp"
	"expensetracker/internal/events/kafka"
	"expensetracker/internal/handlers"
	"expensetracker/internal/logger"
	"expensetracker/internal/router"
	"expensetracker/internal/services"
	"expensetracker/internal/storage/backend"
	"expensetracker/internal/validator"
)

// @title           Expense Tracker API
// @version         1.0
// @description     A small expense ledger: record, edit and delete expenses and view spending totals.

// @host      localhost:8080
// @BasePath  /api

const shutdownTimeout = 30 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

// Broker constructors, replaceable in tests.
var (
	newKafkaPublisher = func(brokers []string, topic string) events.Publisher {
		return kafka.NewPublisher(brokers, topic)
	}
	newAMQPPublisher = func(url, exchange string) (events.Publisher, error) {
		p, err := amqp.NewPublisher(url, exchange)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
)

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom validators
	validator.Register()

	// Open the expense store
	repo, err := backend.Open(appConfig)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Warnf("storage close error: %v", err)
		}
	}()

	// Event publishers
	publisher, err := buildPublisher(appConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warnf("event publisher close error: %v", err)
		}
	}()

	// Initialize services
	auditService := services.NewAuditService(publisher)
	expenseService := services.NewExpenseService(repo, auditService)

	// Initialize handlers and router
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	engine, err := router.New(appConfig, expenseHandler)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Starting expense tracker on port %s (storage: %s)", appConfig.Port, appConfig.StorageBackend)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

// buildPublisher connects every configured broker. If one fails, the
// publishers already opened are closed before returning.
func buildPublisher(cfg *config.Config) (events.Publisher, error) {
	log := logger.Get()

	var publishers []events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publishers = append(publishers, newKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic))
		log.Infow("Publishing expense events to Kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := newAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			if closeErr := events.Combine(publishers...).Close(); closeErr != nil {
				log.Warnf("event publisher close error: %v", closeErr)
			}
			return nil, fmt.Errorf("failed to connect to AMQP: %w", err)
		}
		publishers = append(publishers, amqpPublisher)
		log.Infow("Publishing expense events to AMQP", "exchange", cfg.AMQPExchange)
	}
	return events.Combine(publishers...), nil
}
