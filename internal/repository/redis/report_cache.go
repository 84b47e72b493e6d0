package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adilbekov/orders-service/internal/domain"
	"github.com/adilbekov/orders-service/internal/platform/errors"
	"github.com/adilbekov/orders-service/internal/platform/observability/logging"
	"github.com/adilbekov/orders-service/internal/repository/interfaces"
)

// ReportCache implements interfaces.ReportCache on Redis. Values are stored
// as JSON under the caller-provided key with an explicit TTL.
type ReportCache struct {
	client *redis.Client
	logger logging.Logger
}

// NewReportCache creates a new Redis report cache
func NewReportCache(client *redis.Client, logger logging.Logger) *ReportCache {
	return &ReportCache{
		client: client,
		logger: logger,
	}
}

// Get returns the cached report for the key, (nil, nil) on a miss, or an
// error if the cache backend failed. Callers treat backend errors as a miss
// but must count them separately.
func (c *ReportCache) Get(ctx context.Context, key string) (*domain.SalesReport, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get cached report")
	}

	var report domain.SalesReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		// A corrupt cache entry is indistinguishable from a backend fault
		// for the caller; it recomputes either way.
		c.logger.Warn(ctx, "Discarding unreadable cached report", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, errors.Wrap(err, "failed to unmarshal cached report")
	}

	return &report, nil
}

// Set stores the report under the key with the given TTL
func (c *ReportCache) Set(ctx context.Context, key string, report *domain.SalesReport, ttl time.Duration) error {
	data, err := json.Marshal(report)
	if err != nil {
		return errors.Wrap(err, "failed to marshal report")
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to set cached report")
	}

	return nil
}

// compile-time interface check
var _ interfaces.ReportCache = (*ReportCache)(nil)
