package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/adilbekov/orders-service/internal/platform/database/mongodb"
	"github.com/adilbekov/orders-service/internal/platform/database/redis"
	"github.com/adilbekov/orders-service/internal/platform/observability/logging"
)

// HealthServer serves health, readiness and liveness checks
type HealthServer struct {
	mongo  *mongodb.Connection
	redis  *redis.Connection
	logger logging.Logger
}

// NewHealthServer creates a new health server
func NewHealthServer(mongo *mongodb.Connection, redis *redis.Connection, logger logging.Logger) *HealthServer {
	return &HealthServer{
		mongo:  mongo,
		redis:  redis,
		logger: logger,
	}
}

type healthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HandleHealthCheck handles GET /health
func (s *HealthServer) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	s.writeStatus(w, http.StatusOK, healthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleLivenessCheck handles GET /live
func (s *HealthServer) HandleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	s.writeStatus(w, http.StatusOK, healthStatus{
		Status:    "alive",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReadinessCheck handles GET /ready. The service is ready when both
// the document store and the cache respond. A cache outage degrades the
// report path but the service stays functional, so it is reported but does
// not fail readiness.
func (s *HealthServer) HandleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	checks := make(map[string]string)
	status := http.StatusOK
	overall := "ready"

	if err := s.mongo.HealthCheck(ctx); err != nil {
		checks["mongodb"] = err.Error()
		status = http.StatusServiceUnavailable
		overall = "not ready"
	} else {
		checks["mongodb"] = "ok"
	}

	if err := s.redis.HealthCheck(ctx); err != nil {
		s.logger.Warn(ctx, "Redis health check failed", map[string]interface{}{
			"error": err.Error(),
		})
		checks["redis"] = "degraded: " + err.Error()
	} else {
		checks["redis"] = "ok"
	}

	s.writeStatus(w, status, healthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

func (s *HealthServer) writeStatus(w http.ResponseWriter, statusCode int, payload healthStatus) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
