package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/adilbekov/orders-service/internal/platform/observability/logging"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}, logger logging.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error(context.Background(), "Failed to marshal JSON response", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(response)
}

// writeError writes an error response
func writeError(w http.ResponseWriter, statusCode int, message string, err error, logger logging.Logger) {
	errorResponse := ErrorResponse{
		Error: message,
		Code:  statusCode,
	}

	if err != nil {
		errorResponse.Details = err.Error()
		logger.Error(context.Background(), message, err)
	}

	writeJSON(w, statusCode, errorResponse, logger)
}
