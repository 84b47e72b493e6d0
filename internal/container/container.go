package container

import (
	"context"
	"fmt"

	"github.com/adilbekov/orders-service/internal/config"
	"github.com/adilbekov/orders-service/internal/messaging/kafka"
	"github.com/adilbekov/orders-service/internal/platform/database/mongodb"
	"github.com/adilbekov/orders-service/internal/platform/database/redis"
	"github.com/adilbekov/orders-service/internal/platform/observability/logging"
	"github.com/adilbekov/orders-service/internal/platform/observability/metrics"
	mongorepo "github.com/adilbekov/orders-service/internal/repository/mongodb"
	redisrepo "github.com/adilbekov/orders-service/internal/repository/redis"
	"github.com/adilbekov/orders-service/internal/service"
	transport "github.com/adilbekov/orders-service/internal/transport/http"
	"github.com/adilbekov/orders-service/internal/transport/http/handlers"
)

// Container holds all dependencies for the orders service
type Container struct {
	config  *config.Config
	logger  logging.Logger
	metrics metrics.Metrics

	mongo *mongodb.Connection
	redis *redis.Connection

	// Repositories
	orderRepository *mongorepo.MongoOrderRepository
	itemRepository  *mongorepo.MongoOrderItemRepository
	reportCache     *redisrepo.ReportCache

	// Messaging
	producer *kafka.Producer

	// Services
	orderService  *service.OrderService
	reportService *service.ReportService

	// Transport
	server *transport.Server
}

// New creates a new dependency injection container for the orders service
func New(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	c := &Container{
		config: cfg,
		logger: logger,
	}

	if err := c.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}

	return c, nil
}

// initialize sets up all dependencies
func (c *Container) initialize() error {
	if err := c.initMetrics(); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	if err := c.initDatabases(); err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}

	if err := c.initRepositories(); err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	if err := c.initMessaging(); err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}

	c.initServices()
	c.initTransport()

	return nil
}

// initMetrics initializes the metrics collector
func (c *Container) initMetrics() error {
	m, err := metrics.NewMetrics(c.config.Observability.ServiceName)
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	c.metrics = m
	return nil
}

// initDatabases initializes the MongoDB and Redis connections
func (c *Container) initDatabases() error {
	mongoConn, err := mongodb.NewConnection(mongodb.Config{
		URI:            c.config.Mongo.URI,
		Database:       c.config.Mongo.Database,
		ConnectTimeout: c.config.Mongo.ConnectTimeout,
		QueryTimeout:   c.config.Mongo.QueryTimeout,
		MaxPoolSize:    c.config.Mongo.MaxPoolSize,
		MinPoolSize:    c.config.Mongo.MinPoolSize,
		MaxIdleTime:    c.config.Mongo.MaxIdleTime,
	}, c.logger)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	c.mongo = mongoConn

	redisConn, err := redis.NewConnection(redis.Config{
		Host:         c.config.Redis.Host,
		Port:         c.config.Redis.Port,
		Password:     c.config.Redis.Password,
		DB:           c.config.Redis.DB,
		PoolSize:     c.config.Redis.PoolSize,
		MinIdleConns: c.config.Redis.MinIdleConns,
		DialTimeout:  c.config.Redis.DialTimeout,
		ReadTimeout:  c.config.Redis.ReadTimeout,
		WriteTimeout: c.config.Redis.WriteTimeout,
	}, c.logger)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	c.redis = redisConn

	return nil
}

// initRepositories initializes all repositories and their indexes
func (c *Container) initRepositories() error {
	c.orderRepository = mongorepo.NewOrderRepository(c.mongo, c.logger)
	c.itemRepository = mongorepo.NewOrderItemRepository(c.mongo, c.logger)
	c.reportCache = redisrepo.NewReportCache(c.redis.Client, c.logger)

	ctx, cancel := context.WithTimeout(context.Background(), c.config.Mongo.ConnectTimeout)
	defer cancel()

	if err := c.orderRepository.EnsureIndexes(ctx, c.mongo); err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}
	if err := c.itemRepository.EnsureIndexes(ctx, c.mongo); err != nil {
		return fmt.Errorf("failed to create order item indexes: %w", err)
	}

	c.logger.Info(nil, "Repositories initialized")
	return nil
}

// initMessaging initializes the Kafka producer when a broker is configured.
// The service runs without eventing when Kafka is disabled.
func (c *Container) initMessaging() error {
	if !c.config.Kafka.Enabled {
		c.logger.Info(nil, "Kafka disabled, order events will not be published")
		return nil
	}

	producer, err := kafka.NewProducer(
		c.config.Kafka.Brokers,
		c.config.Kafka.OrderEventsTopic,
		c.config.Kafka.ProducerRetries,
		c.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	c.producer = producer
	return nil
}

// initServices initializes the business services
func (c *Container) initServices() {
	var events service.EventPublisher
	if c.producer != nil {
		events = c.producer
	}

	c.orderService = service.NewOrderService(
		c.orderRepository,
		c.itemRepository,
		events,
		c.logger,
		c.metrics,
	)

	c.reportService = service.NewReportService(
		c.orderRepository,
		c.reportCache,
		c.config.Report.CacheTTL,
		c.logger,
		c.metrics,
	)
}

// initTransport initializes the HTTP server
func (c *Container) initTransport() {
	orderHandler := handlers.NewOrderHandler(c.orderService, c.logger)
	reportHandler := handlers.NewReportHandler(c.reportService, c.logger)
	healthServer := transport.NewHealthServer(c.mongo, c.redis, c.logger)

	c.server = transport.NewServer(
		c.config.Server,
		orderHandler,
		reportHandler,
		healthServer,
		c.logger,
		c.metrics,
	)
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the logger
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetServer returns the HTTP server
func (c *Container) GetServer() *transport.Server {
	return c.server
}

// GetOrderService returns the order service
func (c *Container) GetOrderService() *service.OrderService {
	return c.orderService
}

// GetReportService returns the report service
func (c *Container) GetReportService() *service.ReportService {
	return c.reportService
}

// Close cleans up all resources
func (c *Container) Close(ctx context.Context) error {
	c.logger.Info(ctx, "Shutting down container")

	var errs []error

	if c.producer != nil {
		if err := c.producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Kafka producer: %w", err))
		} else {
			c.logger.Info(ctx, "Kafka producer closed")
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis connection: %w", err))
		} else {
			c.logger.Info(ctx, "Redis connection closed")
		}
	}

	if c.mongo != nil {
		if err := c.mongo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close MongoDB connection: %w", err))
		} else {
			c.logger.Info(ctx, "MongoDB connection closed")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during container shutdown: %v", errs)
	}

	c.logger.Info(ctx, "Container shutdown completed successfully")
	return nil
}

// HealthCheck performs a health check on all dependencies
func (c *Container) HealthCheck(ctx context.Context) error {
	if c.mongo != nil {
		if err := c.mongo.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mongodb health check failed: %w", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.HealthCheck(ctx); err != nil {
			return fmt.Errorf("redis health check failed: %w", err)
		}
	}

	return nil
}
