package domain

// ItemSales is the per-item-name rollup inside a daily sales report
type ItemSales struct {
	Name          string  `json:"name"`
	TotalQuantity int64   `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// SalesReport is the derived daily rollup. It is never persisted; it is
// computed by aggregation over the order and item collections and cached.
type SalesReport struct {
	Date         string      `json:"date"`
	TotalOrders  int64       `json:"total_orders"`
	TotalRevenue float64     `json:"total_revenue"`
	TopItems     []ItemSales `json:"top_items"`
	Message      string      `json:"message,omitempty"`
}

// NoDataMessage is the sentinel message for days with no matching orders
const NoDataMessage = "no data for the selected day"

// NewEmptySalesReport returns the sentinel report for a day with no orders
func NewEmptySalesReport(date string) *SalesReport {
	return &SalesReport{
		Date:     date,
		TopItems: []ItemSales{},
		Message:  NoDataMessage,
	}
}

// IsEmpty reports whether the report is the no-data sentinel
func (r *SalesReport) IsEmpty() bool {
	return r.TotalOrders == 0
}
