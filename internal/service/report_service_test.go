package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adilbekov/orders-service/internal/domain"
	"github.com/adilbekov/orders-service/internal/platform/errors"
	"github.com/adilbekov/orders-service/internal/platform/observability/logging"
	"github.com/adilbekov/orders-service/internal/platform/observability/metrics"
)

// aggregatingOrderRepo counts aggregation calls and serves a canned report.
type aggregatingOrderRepo struct {
	fakeOrderRepo
	report    *domain.SalesReport
	err       error
	callCount int
}

func (r *aggregatingOrderRepo) AggregateDailySales(ctx context.Context, start, end time.Time) (*domain.SalesReport, error) {
	r.callCount++
	if r.err != nil {
		return nil, r.err
	}
	report := *r.report
	return &report, nil
}

// fakeReportCache is an in-memory cache with failure injection.
type fakeReportCache struct {
	entries  map[string]*domain.SalesReport
	ttls     map[string]time.Duration
	getErr   error
	setErr   error
	getCalls int
	setCalls int
}

func newFakeReportCache() *fakeReportCache {
	return &fakeReportCache{
		entries: make(map[string]*domain.SalesReport),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *fakeReportCache) Get(ctx context.Context, key string) (*domain.SalesReport, error) {
	c.getCalls++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[key], nil
}

func (c *fakeReportCache) Set(ctx context.Context, key string, report *domain.SalesReport, ttl time.Duration) error {
	c.setCalls++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = report
	c.ttls[key] = ttl
	return nil
}

func populatedReport() *domain.SalesReport {
	return &domain.SalesReport{
		TotalOrders:  3,
		TotalRevenue: 120.50,
		TopItems: []domain.ItemSales{
			{Name: "Widget", TotalQuantity: 5, TotalRevenue: 49.95},
		},
	}
}

func newTestReportService(orders *aggregatingOrderRepo, cache *fakeReportCache, ttl time.Duration) (*ReportService, *metrics.InMemoryMetrics) {
	m, _ := metrics.NewMetrics("test")
	svc := NewReportService(orders, cache, ttl, logging.NewNoOpLogger(), m)
	return svc, m.(*metrics.InMemoryMetrics)
}

func TestGetDailySalesReport_MissComputesAndCaches(t *testing.T) {
	orders := &aggregatingOrderRepo{report: populatedReport()}
	cache := newFakeReportCache()
	svc, m := newTestReportService(orders, cache, time.Hour)

	report, err := svc.GetDailySalesReport(context.Background(), "2026-08-14")
	require.NoError(t, err)

	assert.Equal(t, "2026-08-14", report.Date)
	assert.Equal(t, int64(3), report.TotalOrders)
	assert.Equal(t, 1, orders.callCount)
	assert.Equal(t, 1, cache.setCalls)

	// Cached with the configured TTL.
	for _, ttl := range cache.ttls {
		assert.Equal(t, time.Hour, ttl)
	}

	assert.Equal(t, int64(1), m.CounterValue("report_cache_misses_total", nil))
	assert.Equal(t, int64(0), m.CounterValue("report_cache_hits_total", nil))
}

func TestGetDailySalesReport_HitSkipsStore(t *testing.T) {
	orders := &aggregatingOrderRepo{report: populatedReport()}
	cache := newFakeReportCache()
	svc, m := newTestReportService(orders, cache, time.Hour)

	first, err := svc.GetDailySalesReport(context.Background(), "2026-08-14")
	require.NoError(t, err)

	second, err := svc.GetDailySalesReport(context.Background(), "2026-08-14")
	require.NoError(t, err)

	assert.Equal(t, first.TotalRevenue, second.TotalRevenue)
	assert.Equal(t, 1, orders.callCount, "second read must come from cache")
	assert.Equal(t, int64(1), m.CounterValue("report_cache_hits_total", nil))
	assert.Equal(t, int64(1), m.CounterValue("report_cache_misses_total", nil))
}

func TestGetDailySalesReport_EmptyDaySentinel(t *testing.T) {
	orders := &aggregatingOrderRepo{report: &domain.SalesReport{}}
	cache := newFakeReportCache()
	svc, _ := newTestReportService(orders, cache, time.Hour)

	report, err := svc.GetDailySalesReport(context.Background(), "2026-08-15")
	require.NoError(t, err)

	assert.Equal(t, domain.NoDataMessage, report.Message)
	assert.Equal(t, "2026-08-15", report.Date)
	assert.Zero(t, report.TotalOrders)

	// The sentinel is cached like any other result.
	assert.Equal(t, 1, cache.setCalls)
	_, err = svc.GetDailySalesReport(context.Background(), "2026-08-15")
	require.NoError(t, err)
	assert.Equal(t, 1, orders.callCount)
}

func TestGetDailySalesReport_CacheGetErrorTreatedAsMiss(t *testing.T) {
	orders := &aggregatingOrderRepo{report: populatedReport()}
	cache := newFakeReportCache()
	cache.getErr = fmt.Errorf("connection refused")
	svc, m := newTestReportService(orders, cache, time.Hour)

	report, err := svc.GetDailySalesReport(context.Background(), "2026-08-14")
	require.NoError(t, err)

	assert.Equal(t, int64(3), report.TotalOrders)
	assert.Equal(t, 1, orders.callCount)
	assert.Equal(t, int64(1), m.CounterValue("report_cache_errors_total", nil))
	assert.Equal(t, int64(1), m.CounterValue("report_cache_misses_total", nil))
}

func TestGetDailySalesReport_CacheSetErrorSwallowed(t *testing.T) {
	orders := &aggregatingOrderRepo{report: populatedReport()}
	cache := newFakeReportCache()
	cache.setErr = fmt.Errorf("readonly replica")
	svc, _ := newTestReportService(orders, cache, time.Hour)

	report, err := svc.GetDailySalesReport(context.Background(), "2026-08-14")
	require.NoError(t, err)
	assert.Equal(t, int64(3), report.TotalOrders)
}

func TestGetDailySalesReport_AggregationErrorHasReportKind(t *testing.T) {
	orders := &aggregatingOrderRepo{err: fmt.Errorf("pipeline failed")}
	cache := newFakeReportCache()
	svc, _ := newTestReportService(orders, cache, time.Hour)

	_, err := svc.GetDailySalesReport(context.Background(), "2026-08-14")
	require.Error(t, err)
	assert.True(t, errors.IsReport(err))
	assert.Zero(t, cache.setCalls)
}

func TestGetDailySalesReport_InvalidDate(t *testing.T) {
	orders := &aggregatingOrderRepo{report: populatedReport()}
	svc, _ := newTestReportService(orders, newFakeReportCache(), time.Hour)

	_, err := svc.GetDailySalesReport(context.Background(), "14-08-2026")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Zero(t, orders.callCount)
}

func TestGetDailySalesReport_EmptyDateUsesToday(t *testing.T) {
	orders := &aggregatingOrderRepo{report: populatedReport()}
	cache := newFakeReportCache()
	svc, _ := newTestReportService(orders, cache, time.Hour)

	fixed := time.Date(2026, time.August, 14, 17, 30, 0, 0, time.Local)
	svc.now = func() time.Time { return fixed }

	report, err := svc.GetDailySalesReport(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-14", report.Date)
}

func TestDayWindowEndsAtCalendarDayBoundary(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	original := time.Local
	time.Local = loc
	defer func() { time.Local = original }()

	svc, _ := newTestReportService(&aggregatingOrderRepo{report: populatedReport()}, newFakeReportCache(), time.Hour)

	// Spring forward: 2026-03-08 is a 23 hour day in this zone. The window
	// must still end at 23:59:59.999 on March 8, not spill into March 9.
	start, end, err := svc.dayWindow("2026-03-08")
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2026, time.March, 8, 0, 0, 0, 0, loc)))
	assert.True(t, end.Equal(time.Date(2026, time.March, 8, 23, 59, 59, 999000000, loc)))

	// Fall back: 2026-11-01 is a 25 hour day. The extra hour belongs to the
	// window; the end still sits on November 1.
	start, end, err = svc.dayWindow("2026-11-01")
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2026, time.November, 1, 0, 0, 0, 0, loc)))
	assert.True(t, end.Equal(time.Date(2026, time.November, 1, 23, 59, 59, 999000000, loc)))
}

func TestCacheKeyDeterministicForSameDay(t *testing.T) {
	orders := &aggregatingOrderRepo{report: populatedReport()}
	cache := newFakeReportCache()
	svc, _ := newTestReportService(orders, cache, time.Hour)

	fixed := time.Date(2026, time.August, 14, 9, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return fixed }

	// "today" and the explicit date name the same window, so the second
	// request is a cache hit.
	_, err := svc.GetDailySalesReport(context.Background(), "")
	require.NoError(t, err)
	_, err = svc.GetDailySalesReport(context.Background(), "2026-08-14")
	require.NoError(t, err)

	assert.Equal(t, 1, orders.callCount)
	assert.Len(t, cache.entries, 1)
}
