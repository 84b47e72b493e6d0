package handlers

import (
	"time"

	"github.com/adilbekov/orders-service/internal/domain"
)

// Request DTOs

// CustomerRequest represents customer info in HTTP requests
type CustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// CreateOrderRequest represents the HTTP request to create a new order
type CreateOrderRequest struct {
	Customer CustomerRequest          `json:"customer"`
	Items    []CreateOrderItemRequest `json:"items"`
}

// CreateOrderItemRequest represents an item in the create order request
type CreateOrderItemRequest struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// UpdateOrderRequest represents the HTTP request to update an order
type UpdateOrderRequest struct {
	Customer CustomerRequest          `json:"customer"`
	Items    []UpdateOrderItemRequest `json:"items"`
}

// UpdateOrderItemRequest represents an item in the update order request.
// An id marks an existing item; items without an id are created.
type UpdateOrderItemRequest struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Response DTOs

// OrderResponse represents an order in HTTP responses
type OrderResponse struct {
	ID         string              `json:"id"`
	Customer   CustomerRequest     `json:"customer"`
	TotalPrice float64             `json:"total_price"`
	Timestamp  string              `json:"timestamp"`
	Items      []OrderItemResponse `json:"items"`
}

// OrderItemResponse represents an order item in HTTP responses
type OrderItemResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderListResponse represents the response for the orders list endpoint
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

// ReportResponse represents a daily sales report in HTTP responses
type ReportResponse struct {
	Date         string              `json:"date"`
	TotalOrders  int64               `json:"total_orders"`
	TotalRevenue float64             `json:"total_revenue"`
	TopItems     []ItemSalesResponse `json:"top_items"`
	Message      string              `json:"message,omitempty"`
}

// ItemSalesResponse represents a per-item rollup in report responses
type ItemSalesResponse struct {
	Name          string  `json:"name"`
	TotalQuantity int64   `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// ErrorResponse represents an error in HTTP responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Details string `json:"details,omitempty"`
}

// Conversion helpers

func convertOrderToResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ID:       item.ID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	return OrderResponse{
		ID: order.ID,
		Customer: CustomerRequest{
			Name:  order.Customer.Name,
			Phone: order.Customer.Phone,
			Email: order.Customer.Email,
		},
		TotalPrice: order.TotalPrice,
		Timestamp:  order.Timestamp.UTC().Format(time.RFC3339),
		Items:      items,
	}
}

func convertReportToResponse(report *domain.SalesReport) ReportResponse {
	topItems := make([]ItemSalesResponse, len(report.TopItems))
	for i, item := range report.TopItems {
		topItems[i] = ItemSalesResponse{
			Name:          item.Name,
			TotalQuantity: item.TotalQuantity,
			TotalRevenue:  item.TotalRevenue,
		}
	}

	return ReportResponse{
		Date:         report.Date,
		TotalOrders:  report.TotalOrders,
		TotalRevenue: report.TotalRevenue,
		TopItems:     topItems,
		Message:      report.Message,
	}
}
