package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/adilbekov/orders-service/internal/config"
	"github.com/adilbekov/orders-service/internal/platform/observability/logging"
	"github.com/adilbekov/orders-service/internal/platform/observability/metrics"
	"github.com/adilbekov/orders-service/internal/transport/http/handlers"
	customMiddleware "github.com/adilbekov/orders-service/internal/transport/http/middleware"
)

// Server represents the HTTP server
type Server struct {
	server        *http.Server
	router        *chi.Mux
	logger        logging.Logger
	metrics       metrics.Metrics
	orderHandler  *handlers.OrderHandler
	reportHandler *handlers.ReportHandler
	healthServer  *HealthServer
	config        config.ServerConfig
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	orderHandler *handlers.OrderHandler,
	reportHandler *handlers.ReportHandler,
	healthServer *HealthServer,
	logger logging.Logger,
	metrics metrics.Metrics,
) *Server {
	server := &Server{
		logger:        logger,
		metrics:       metrics,
		orderHandler:  orderHandler,
		reportHandler: reportHandler,
		healthServer:  healthServer,
		config:        cfg,
	}

	server.setupRoutes()
	server.setupServer()

	return server
}

// setupRoutes configures all the routes and middleware
func (s *Server) setupRoutes() {
	s.router = chi.NewRouter()

	// Apply Chi built-in middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Timeout(30 * time.Second))

	// Apply custom middleware
	s.router.Use(customMiddleware.RecoveryMiddleware(s.logger))
	s.router.Use(customMiddleware.LoggingMiddleware(s.logger))
	s.router.Use(customMiddleware.MetricsMiddleware(s.metrics))
	s.router.Use(customMiddleware.SecurityHeadersMiddleware())

	// Health endpoints
	s.router.Get("/health", s.healthServer.HandleHealthCheck)
	s.router.Get("/ready", s.healthServer.HandleReadinessCheck)
	s.router.Get("/live", s.healthServer.HandleLivenessCheck)

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		s.setupOrderRoutes(r)
		s.setupReportRoutes(r)
	})
}

// setupOrderRoutes configures order-specific routes
func (s *Server) setupOrderRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", s.orderHandler.CreateOrder)
		r.Get("/", s.orderHandler.ListOrders)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.orderHandler.GetOrder)
			r.Put("/", s.orderHandler.UpdateOrder)
		})
	})

	s.logger.Info(nil, "Order routes configured", map[string]interface{}{
		"routes": []string{
			"POST /api/v1/orders",
			"GET /api/v1/orders",
			"GET /api/v1/orders/{id}",
			"PUT /api/v1/orders/{id}",
		},
	})
}

// setupReportRoutes configures report routes
func (s *Server) setupReportRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/daily-sales", s.reportHandler.GetDailySalesReport)
	})

	s.logger.Info(nil, "Report routes configured", map[string]interface{}{
		"routes": []string{
			"GET /api/v1/reports/daily-sales",
		},
	})
}

// setupServer configures the HTTP server
func (s *Server) setupServer() {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
		ErrorLog:     nil, // We handle logging through our middleware
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info(ctx, "Starting HTTP server", map[string]interface{}{
		"address":       s.server.Addr,
		"read_timeout":  s.config.ReadTimeout,
		"write_timeout": s.config.WriteTimeout,
		"idle_timeout":  s.config.IdleTimeout,
	})

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info(ctx, "Stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error(ctx, "Failed to gracefully shutdown HTTP server", err)
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info(ctx, "HTTP server stopped successfully")
	return nil
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *chi.Mux {
	return s.router
}
