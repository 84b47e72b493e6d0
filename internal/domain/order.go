package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adilbekov/orders-service/internal/platform/errors"
)

// Customer identifies who placed an order. All three fields are required.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// OrderItem is a single line item. Items are exclusively owned by their
// parent order and have no independent lifecycle.
type OrderItem struct {
	ID       string  `json:"id"`
	OrderID  string  `json:"order_id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Total returns the line total for the item
func (i OrderItem) Total() float64 {
	return i.Price * float64(i.Quantity)
}

// Order is the aggregate root. The order document and its item documents
// live in separate collections; ItemIDs is the persisted forward-reference
// array, Items is the hydrated view assembled from the item collection.
//
// TotalPrice is derived: it always equals the sum of price*quantity over the
// referenced items as of the last successful write.
type Order struct {
	ID         string      `json:"id"`
	Customer   Customer    `json:"customer"`
	TotalPrice float64     `json:"total_price"`
	Timestamp  time.Time   `json:"timestamp"`
	ItemIDs    []string    `json:"item_ids"`
	Items      []OrderItem `json:"items,omitempty"`
}

// CreateOrderItemSpec describes an item in a create request
type CreateOrderItemSpec struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// CreateOrderRequest is the input to order creation
type CreateOrderRequest struct {
	Customer Customer              `json:"customer"`
	Items    []CreateOrderItemSpec `json:"items"`
}

// UpdateOrderItemSpec describes an item in an update request. A present ID
// means "update the existing item"; an absent ID means "create a new item".
type UpdateOrderItemSpec struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// UpdateOrderRequest is the input to order update
type UpdateOrderRequest struct {
	Customer Customer              `json:"customer"`
	Items    []UpdateOrderItemSpec `json:"items"`
}

// TotalPrice computes the derived order total from the item specs.
func (r CreateOrderRequest) TotalPrice() float64 {
	total := 0.0
	for _, item := range r.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// TotalPrice computes the derived order total from the item specs.
func (r UpdateOrderRequest) TotalPrice() float64 {
	total := 0.0
	for _, item := range r.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Validate checks the structural requirements of a create request.
// Quantity and price signs are deliberately unconstrained.
func (r CreateOrderRequest) Validate() error {
	if err := r.Customer.Validate(); err != nil {
		return err
	}
	if len(r.Items) == 0 {
		return errors.NewValidation("order must contain at least one item")
	}
	for _, item := range r.Items {
		if item.Name == "" {
			return errors.NewValidation("item name is required")
		}
	}
	return nil
}

// Validate checks the structural requirements of an update request.
func (r UpdateOrderRequest) Validate() error {
	if err := r.Customer.Validate(); err != nil {
		return err
	}
	if len(r.Items) == 0 {
		return errors.NewValidation("order must contain at least one item")
	}
	for _, item := range r.Items {
		if item.Name == "" {
			return errors.NewValidation("item name is required")
		}
		if item.ID != "" && !IsValidID(item.ID) {
			return errors.NewValidation("invalid item id: " + item.ID)
		}
	}
	return nil
}

// Validate checks that all customer fields are present
func (c Customer) Validate() error {
	if c.Name == "" {
		return errors.NewValidation("customer name is required")
	}
	if c.Phone == "" {
		return errors.NewValidation("customer phone is required")
	}
	if c.Email == "" {
		return errors.NewValidation("customer email is required")
	}
	return nil
}

// IsValidID reports whether s is a well-formed document id
func IsValidID(s string) bool {
	return primitive.IsValidObjectID(s)
}
