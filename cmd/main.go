package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/adilbekov/orders-service/internal/config"
	"github.com/adilbekov/orders-service/internal/container"
	"github.com/adilbekov/orders-service/internal/platform/observability/logging"
)

func main() {
	// Create root context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file if present; environment variables take precedence
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize observability
	logger, err := logging.NewServiceLogger(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceVersion,
		cfg.Observability.LogLevel,
	)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	logger.Info(ctx, "Starting Orders Service", map[string]interface{}{
		"service": cfg.Observability.ServiceName,
		"version": cfg.Observability.ServiceVersion,
	})

	// Initialize dependency container
	logger.Info(ctx, "Initializing container...")
	c, err := container.New(cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize container", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Container initialized successfully")

	// Setup graceful shutdown
	var wg sync.WaitGroup
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	// Start HTTP server
	httpServer := c.GetServer()
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := httpServer.Start(ctx); err != nil {
			logger.Error(ctx, "HTTP server failed", err)
		}
	}()

	logger.Info(ctx, "Orders Service started successfully", map[string]interface{}{
		"http_address": fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		"mongodb":      cfg.Mongo.Database,
		"kafka":        cfg.Kafka.Enabled,
	})

	// Wait for shutdown signal
	<-shutdownCh
	logger.Info(ctx, "Shutdown signal received, stopping service...")

	// Cancel context to stop all components
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop HTTP server
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Failed to stop HTTP server", err)
	}

	// Wait for all goroutines to finish
	wg.Wait()

	// Release container resources
	if err := c.Close(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Failed to close container", err)
	}

	logger.Info(ctx, "Orders Service stopped successfully")
}

// Example environment variables for running the service:
/*
export SERVER_HOST=0.0.0.0
export SERVER_PORT=8080
export MONGO_URI=mongodb://localhost:27017
export MONGO_DATABASE=orders
export REDIS_HOST=localhost
export REDIS_PORT=6379
export KAFKA_ENABLED=true
export KAFKA_BROKERS=localhost:9092
export KAFKA_ORDER_EVENTS_TOPIC=order-events
export REPORT_CACHE_TTL=1h
export LOG_LEVEL=info
*/
