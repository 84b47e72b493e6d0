package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adilbekov/orders-service/internal/platform/errors"
)

func TestCreateOrderRequestTotalPrice(t *testing.T) {
	req := CreateOrderRequest{
		Items: []CreateOrderItemSpec{
			{Name: "Widget", Quantity: 2, Price: 9.99},
			{Name: "Gadget", Quantity: 1, Price: 45.00},
		},
	}

	assert.InDelta(t, 64.98, req.TotalPrice(), 0.0001)
}

func TestOrderItemTotal(t *testing.T) {
	item := OrderItem{Quantity: 3, Price: 2.50}
	assert.InDelta(t, 7.50, item.Total(), 0.0001)
}

func TestCustomerValidate(t *testing.T) {
	tests := []struct {
		name     string
		customer Customer
		wantErr  bool
	}{
		{"valid", Customer{Name: "Ann", Phone: "+15550100", Email: "ann@example.com"}, false},
		{"missing name", Customer{Phone: "+15550100", Email: "ann@example.com"}, true},
		{"missing phone", Customer{Name: "Ann", Email: "ann@example.com"}, true},
		{"missing email", Customer{Name: "Ann", Phone: "+15550100"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.customer.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateOrderRequestValidate(t *testing.T) {
	valid := Customer{Name: "Ann", Phone: "+15550100", Email: "ann@example.com"}

	t.Run("valid", func(t *testing.T) {
		req := CreateOrderRequest{
			Customer: valid,
			Items:    []CreateOrderItemSpec{{Name: "Widget", Quantity: 1, Price: 1}},
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("no items", func(t *testing.T) {
		req := CreateOrderRequest{Customer: valid}
		assert.Error(t, req.Validate())
	})

	t.Run("unnamed item", func(t *testing.T) {
		req := CreateOrderRequest{
			Customer: valid,
			Items:    []CreateOrderItemSpec{{Quantity: 1, Price: 1}},
		}
		assert.Error(t, req.Validate())
	})

	t.Run("zero quantity allowed", func(t *testing.T) {
		req := CreateOrderRequest{
			Customer: valid,
			Items:    []CreateOrderItemSpec{{Name: "Widget", Quantity: 0, Price: 1}},
		}
		assert.NoError(t, req.Validate())
	})
}

func TestUpdateOrderRequestValidate(t *testing.T) {
	valid := Customer{Name: "Ann", Phone: "+15550100", Email: "ann@example.com"}

	t.Run("new item without id", func(t *testing.T) {
		req := UpdateOrderRequest{
			Customer: valid,
			Items:    []UpdateOrderItemSpec{{Name: "Widget", Quantity: 1, Price: 1}},
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("malformed item id", func(t *testing.T) {
		req := UpdateOrderRequest{
			Customer: valid,
			Items:    []UpdateOrderItemSpec{{ID: "nope", Name: "Widget", Quantity: 1, Price: 1}},
		}
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("well-formed item id", func(t *testing.T) {
		req := UpdateOrderRequest{
			Customer: valid,
			Items:    []UpdateOrderItemSpec{{ID: "65f1a2b3c4d5e6f708192a3b", Name: "Widget", Quantity: 1, Price: 1}},
		}
		assert.NoError(t, req.Validate())
	})
}

func TestIsValidID(t *testing.T) {
	assert.True(t, IsValidID("65f1a2b3c4d5e6f708192a3b"))
	assert.False(t, IsValidID(""))
	assert.False(t, IsValidID("not-hex"))
	assert.False(t, IsValidID("65f1a2b3c4d5e6f708192a3")) // 23 chars
}

func TestSalesReportSentinel(t *testing.T) {
	empty := NewEmptySalesReport("2026-08-14")
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, NoDataMessage, empty.Message)
	assert.NotNil(t, empty.TopItems)

	populated := &SalesReport{TotalOrders: 2}
	assert.False(t, populated.IsEmpty())
}
