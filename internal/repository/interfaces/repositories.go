package interfaces

import (
	"context"
	"time"

	"github.com/adilbekov/orders-service/internal/domain"
)

// OrderRepository is the operation set over the order collection
type OrderRepository interface {
	// Insert stores a new order document and returns the id the store
	// assigned to it. The order's ItemIDs may be empty at this point.
	Insert(ctx context.Context, order *domain.Order) (string, error)

	// FindByID returns the order document, or a not-found error if the id
	// does not resolve.
	FindByID(ctx context.Context, id string) (*domain.Order, error)

	// FindAll returns all order documents.
	FindAll(ctx context.Context) ([]domain.Order, error)

	// Replace persists the full order document under its existing id.
	Replace(ctx context.Context, order *domain.Order) error

	// DeleteByID removes the order document. Used as a compensating action
	// when item creation fails mid-way.
	DeleteByID(ctx context.Context, id string) error

	// AggregateDailySales runs the grouping pipeline over orders whose
	// timestamp falls in [start, end], joined against their items.
	AggregateDailySales(ctx context.Context, start, end time.Time) (*domain.SalesReport, error)
}

// OrderItemRepository is the operation set over the item collection
type OrderItemRepository interface {
	// InsertMany batch-inserts items and returns the assigned ids. On
	// failure it returns the ids of any items that did get inserted so the
	// caller can compensate.
	InsertMany(ctx context.Context, items []domain.OrderItem) ([]string, error)

	// BulkUpdate applies name/quantity/price of each item by id in a single
	// bulk write. Ids that match no document are silently skipped by the
	// store.
	BulkUpdate(ctx context.Context, items []domain.OrderItem) error

	// DeleteByIDs removes every item in the id set.
	DeleteByIDs(ctx context.Context, ids []string) error

	// FindIDsByOrder returns the ids of all items whose back-reference is
	// the given order. This is the authoritative existing set for
	// reconciliation, independent of the order document's own item array.
	FindIDsByOrder(ctx context.Context, orderID string) ([]string, error)

	// FindByOrder returns the full item documents owned by the order.
	FindByOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error)
}

// ReportCache is the get/set-with-ttl surface over the external cache.
// Get returns (nil, nil) on a true miss; a non-nil error means the cache
// backend failed, which callers must treat as a miss but count separately.
type ReportCache interface {
	Get(ctx context.Context, key string) (*domain.SalesReport, error)
	Set(ctx context.Context, key string, report *domain.SalesReport, ttl time.Duration) error
}
