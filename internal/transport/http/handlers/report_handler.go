package handlers

import (
	"context"
	"net/http"

	"github.com/adilbekov/orders-service/internal/domain"
	"github.com/adilbekov/orders-service/internal/platform/errors"
	"github.com/adilbekov/orders-service/internal/platform/observability/logging"
)

// ReportService is the surface of the report service the handler needs
type ReportService interface {
	GetDailySalesReport(ctx context.Context, date string) (*domain.SalesReport, error)
}

// ReportHandler handles HTTP requests for reports
type ReportHandler struct {
	reportService ReportService
	logger        logging.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService ReportService, logger logging.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// GetDailySalesReport handles GET /reports/daily-sales?date=YYYY-MM-DD
func (h *ReportHandler) GetDailySalesReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date := r.URL.Query().Get("date")

	report, err := h.reportService.GetDailySalesReport(ctx, date)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, convertReportToResponse(report))
}

func (h *ReportHandler) respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	writeJSON(w, statusCode, payload, h.logger)
}

func (h *ReportHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.IsValidation(err):
		writeError(w, http.StatusBadRequest, "Validation error", err, h.logger)
	case errors.IsReport(err):
		writeError(w, http.StatusInternalServerError, "Failed to generate report", err, h.logger)
	default:
		h.logger.Error(context.Background(), "Internal server error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", nil, h.logger)
	}
}
