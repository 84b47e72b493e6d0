package service

import (
	"context"
	"time"

	"github.com/adilbekov/orders-service/internal/domain"
	"github.com/adilbekov/orders-service/internal/platform/errors"
	"github.com/adilbekov/orders-service/internal/platform/observability/logging"
	"github.com/adilbekov/orders-service/internal/platform/observability/metrics"
	"github.com/adilbekov/orders-service/internal/repository/interfaces"
)

const (
	reportDateLayout     = "2006-01-02"
	reportCacheKeyPrefix = "reports:daily-sales:"
)

// ReportService computes the daily sales rollup and serves it cache-aside:
// check the cache by key, on miss aggregate from the order store and write
// the result back with a fixed TTL. A cached value is returned verbatim;
// staleness is governed purely by the TTL.
type ReportService struct {
	orders  interfaces.OrderRepository
	cache   interfaces.ReportCache
	ttl     time.Duration
	logger  logging.Logger
	metrics metrics.Metrics
	now     func() time.Time
}

// NewReportService creates a new report service
func NewReportService(
	orders interfaces.OrderRepository,
	cache interfaces.ReportCache,
	ttl time.Duration,
	logger logging.Logger,
	metrics metrics.Metrics,
) *ReportService {
	return &ReportService{
		orders:  orders,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// GetDailySalesReport returns the sales rollup for the given calendar day.
// date is "YYYY-MM-DD" in the server's local time zone; empty means today.
// A day with no matching orders yields the no-data sentinel, which is
// cached under the same rules as a populated report.
func (s *ReportService) GetDailySalesReport(ctx context.Context, date string) (*domain.SalesReport, error) {
	startOfDay, endOfDay, err := s.dayWindow(date)
	if err != nil {
		return nil, err
	}

	key := cacheKey(startOfDay)

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		// A cache backend error falls through to recomputation like a miss,
		// but is logged and counted distinctly so it stays observable.
		s.metrics.IncrementCounter("report_cache_errors_total", nil)
		s.logger.Warn(ctx, "Report cache read failed, recomputing", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	} else if cached != nil {
		s.metrics.IncrementCounter("report_cache_hits_total", nil)
		return cached, nil
	}

	s.metrics.IncrementCounter("report_cache_misses_total", nil)

	report, err := s.orders.AggregateDailySales(ctx, startOfDay, endOfDay)
	if err != nil {
		return nil, errors.WrapReport(err, "failed to generate daily sales report")
	}

	dateStr := startOfDay.Format(reportDateLayout)
	if report.IsEmpty() {
		report = domain.NewEmptySalesReport(dateStr)
	} else {
		report.Date = dateStr
	}

	// Caching is an optimization, not a correctness requirement: a set
	// failure is logged and the report still returned.
	if err := s.cache.Set(ctx, key, report, s.ttl); err != nil {
		s.logger.Warn(ctx, "Failed to cache daily sales report", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	s.logger.Info(ctx, "Daily sales report generated", map[string]interface{}{
		"date":         dateStr,
		"total_orders": report.TotalOrders,
	})

	return report, nil
}

// dayWindow computes [local midnight, local 23:59:59.999] for the date as
// absolute instants, matching how order timestamps are stored.
func (s *ReportService) dayWindow(date string) (time.Time, time.Time, error) {
	var target time.Time
	if date == "" {
		target = s.now()
	} else {
		parsed, err := time.ParseInLocation(reportDateLayout, date, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, errors.NewValidation("invalid date, expected YYYY-MM-DD: " + date)
		}
		target = parsed
	}

	// Both bounds are built from calendar components; DST-transition days
	// are not 24 hours long, so the end cannot be derived by adding a
	// duration to the start.
	year, month, day := target.Date()
	startOfDay := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	endOfDay := time.Date(year, month, day, 23, 59, 59, 999000000, time.Local)

	return startOfDay, endOfDay, nil
}

// cacheKey derives a deterministic key from the window start, so every way
// of naming the same day maps to the same cache entry.
func cacheKey(startOfDay time.Time) string {
	return reportCacheKeyPrefix + startOfDay.UTC().Format(time.RFC3339)
}
