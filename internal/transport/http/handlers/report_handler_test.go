package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adilbekov/orders-service/internal/domain"
	"github.com/adilbekov/orders-service/internal/platform/errors"
	"github.com/adilbekov/orders-service/internal/platform/observability/logging"
)

type stubReportService struct {
	fn func(ctx context.Context, date string) (*domain.SalesReport, error)
}

func (s *stubReportService) GetDailySalesReport(ctx context.Context, date string) (*domain.SalesReport, error) {
	return s.fn(ctx, date)
}

func TestGetDailySalesReportHandler_OK(t *testing.T) {
	svc := &stubReportService{
		fn: func(ctx context.Context, date string) (*domain.SalesReport, error) {
			assert.Equal(t, "2026-08-14", date)
			return &domain.SalesReport{
				Date:         "2026-08-14",
				TotalOrders:  3,
				TotalRevenue: 120.50,
				TopItems: []domain.ItemSales{
					{Name: "Widget", TotalQuantity: 5, TotalRevenue: 49.95},
				},
			}, nil
		},
	}
	handler := NewReportHandler(svc, logging.NewNoOpLogger())

	req := httptest.NewRequest(http.MethodGet, "/reports/daily-sales?date=2026-08-14", nil)
	rec := httptest.NewRecorder()
	handler.GetDailySalesReport(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2026-08-14", resp.Date)
	assert.Equal(t, int64(3), resp.TotalOrders)
	require.Len(t, resp.TopItems, 1)
	assert.Equal(t, "Widget", resp.TopItems[0].Name)
	assert.Empty(t, resp.Message)
}

func TestGetDailySalesReportHandler_NoData(t *testing.T) {
	svc := &stubReportService{
		fn: func(ctx context.Context, date string) (*domain.SalesReport, error) {
			return domain.NewEmptySalesReport("2026-08-15"), nil
		},
	}
	handler := NewReportHandler(svc, logging.NewNoOpLogger())

	req := httptest.NewRequest(http.MethodGet, "/reports/daily-sales?date=2026-08-15", nil)
	rec := httptest.NewRecorder()
	handler.GetDailySalesReport(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.NoDataMessage, resp.Message)
	assert.Zero(t, resp.TotalOrders)
}

func TestGetDailySalesReportHandler_EmptyDate(t *testing.T) {
	var gotDate string
	svc := &stubReportService{
		fn: func(ctx context.Context, date string) (*domain.SalesReport, error) {
			gotDate = date
			return domain.NewEmptySalesReport("2026-08-29"), nil
		},
	}
	handler := NewReportHandler(svc, logging.NewNoOpLogger())

	req := httptest.NewRequest(http.MethodGet, "/reports/daily-sales", nil)
	rec := httptest.NewRecorder()
	handler.GetDailySalesReport(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, gotDate)
}

func TestGetDailySalesReportHandler_BadDate(t *testing.T) {
	svc := &stubReportService{
		fn: func(ctx context.Context, date string) (*domain.SalesReport, error) {
			return nil, errors.NewValidation("invalid date, expected YYYY-MM-DD: " + date)
		},
	}
	handler := NewReportHandler(svc, logging.NewNoOpLogger())

	req := httptest.NewRequest(http.MethodGet, "/reports/daily-sales?date=14-08-2026", nil)
	rec := httptest.NewRecorder()
	handler.GetDailySalesReport(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDailySalesReportHandler_AggregationFailure(t *testing.T) {
	svc := &stubReportService{
		fn: func(ctx context.Context, date string) (*domain.SalesReport, error) {
			return nil, errors.WrapReport(fmt.Errorf("pipeline failed"), "failed to generate daily sales report")
		},
	}
	handler := NewReportHandler(svc, logging.NewNoOpLogger())

	req := httptest.NewRequest(http.MethodGet, "/reports/daily-sales?date=2026-08-14", nil)
	rec := httptest.NewRecorder()
	handler.GetDailySalesReport(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to generate report", resp.Error)
}
