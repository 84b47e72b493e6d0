package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adilbekov/orders-service/internal/domain"
	"github.com/adilbekov/orders-service/internal/platform/errors"
	"github.com/adilbekov/orders-service/internal/platform/observability/logging"
)

// OrderService is the surface of the reconciliation engine the handler needs
type OrderService interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id string, req domain.UpdateOrderRequest) (*domain.Order, error)
	FindOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	orderService OrderService
	logger       logging.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService OrderService, logger logging.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}

	domainReq := domain.CreateOrderRequest{
		Customer: domain.Customer(req.Customer),
		Items:    make([]domain.CreateOrderItemSpec, len(req.Items)),
	}
	for i, item := range req.Items {
		domainReq.Items[i] = domain.CreateOrderItemSpec{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	order, err := h.orderService.CreateOrder(ctx, domainReq)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info(ctx, "Order created", map[string]interface{}{
		"order_id": order.ID,
		"total":    order.TotalPrice,
	})

	h.respondWithJSON(w, http.StatusCreated, convertOrderToResponse(order))
}

// UpdateOrder handles PUT /orders/{id}
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID := chi.URLParam(r, "id")
	if !domain.IsValidID(orderID) {
		h.respondWithError(w, http.StatusBadRequest, "Invalid order ID", nil)
		return
	}

	var req UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}

	domainReq := domain.UpdateOrderRequest{
		Customer: domain.Customer(req.Customer),
		Items:    make([]domain.UpdateOrderItemSpec, len(req.Items)),
	}
	for i, item := range req.Items {
		domainReq.Items[i] = domain.UpdateOrderItemSpec{
			ID:       item.ID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	order, err := h.orderService.UpdateOrder(ctx, orderID, domainReq)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info(ctx, "Order updated", map[string]interface{}{
		"order_id": order.ID,
		"total":    order.TotalPrice,
	})

	h.respondWithJSON(w, http.StatusOK, convertOrderToResponse(order))
}

// GetOrder handles GET /orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID := chi.URLParam(r, "id")
	if !domain.IsValidID(orderID) {
		h.respondWithError(w, http.StatusBadRequest, "Invalid order ID", nil)
		return
	}

	order, err := h.orderService.FindOrder(ctx, orderID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, convertOrderToResponse(order))
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := h.orderService.ListOrders(ctx)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response := OrderListResponse{
		Orders: make([]OrderResponse, len(orders)),
		Total:  len(orders),
	}
	for i := range orders {
		response.Orders[i] = convertOrderToResponse(&orders[i])
	}

	h.respondWithJSON(w, http.StatusOK, response)
}

// Private helpers

func (h *OrderHandler) respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	writeJSON(w, statusCode, payload, h.logger)
}

func (h *OrderHandler) respondWithError(w http.ResponseWriter, statusCode int, message string, err error) {
	writeError(w, statusCode, message, err, h.logger)
}

func (h *OrderHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.IsNotFound(err):
		h.respondWithError(w, http.StatusNotFound, "Resource not found", err)
	case errors.IsValidation(err):
		h.respondWithError(w, http.StatusBadRequest, "Validation error", err)
	case errors.IsCompensation(err):
		// Store inconsistency: orphaned documents may remain
		h.logger.Error(context.Background(), "Compensation failure, operator attention required", err)
		h.respondWithError(w, http.StatusInternalServerError, "Order creation failed and rollback was incomplete", err)
	case errors.IsCreation(err):
		h.respondWithError(w, http.StatusInternalServerError, "Failed to create order", err)
	case errors.IsUpdate(err):
		h.respondWithError(w, http.StatusInternalServerError, "Failed to update order", err)
	default:
		h.logger.Error(context.Background(), "Internal server error", err)
		h.respondWithError(w, http.StatusInternalServerError, "Internal server error", nil)
	}
}
