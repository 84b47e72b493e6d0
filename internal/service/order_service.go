package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/adilbekov/orders-service/internal/domain"
	"github.com/adilbekov/orders-service/internal/platform/errors"
	"github.com/adilbekov/orders-service/internal/platform/observability/logging"
	"github.com/adilbekov/orders-service/internal/platform/observability/metrics"
	"github.com/adilbekov/orders-service/internal/repository/interfaces"
)

// OrderEvent describes an order lifecycle event for downstream consumers
type OrderEvent struct {
	OrderID    string    `json:"order_id"`
	TotalPrice float64   `json:"total_price"`
	ItemCount  int       `json:"item_count"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventPublisher publishes order lifecycle events. Publishing is
// observability, not correctness: failures are logged and swallowed.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event OrderEvent) error
	PublishOrderUpdated(ctx context.Context, event OrderEvent) error
}

// OrderService is the reconciliation engine. It keeps the order collection
// and the item collection consistent without multi-document transactions:
// creation is a pseudo-transaction with compensating deletes, and update
// reconciles the incoming item list against the stored items.
//
// Concurrent operations on the same order are not coordinated; the order
// document write is last-writer-wins.
type OrderService struct {
	orders  interfaces.OrderRepository
	items   interfaces.OrderItemRepository
	events  EventPublisher
	logger  logging.Logger
	metrics metrics.Metrics
}

// NewOrderService creates a new order service. events may be nil when no
// broker is configured.
func NewOrderService(
	orders interfaces.OrderRepository,
	items interfaces.OrderItemRepository,
	events EventPublisher,
	logger logging.Logger,
	metrics metrics.Metrics,
) *OrderService {
	return &OrderService{
		orders:  orders,
		items:   items,
		events:  events,
		logger:  logger,
		metrics: metrics,
	}
}

// CreateOrder creates an order together with its items across the two
// collections.
//
// Sequence: insert the order with an empty item list (this assigns its
// identity), batch-insert the items stamped with the order's id, then
// replace the order with the final item id list. If the item insert fails,
// any items that did get inserted are deleted and then the order document
// itself is deleted; a failure of either compensating delete is reported as
// a compensation failure so operators can detect orphaned documents.
func (s *OrderService) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	order := &domain.Order{
		Customer:   req.Customer,
		TotalPrice: req.TotalPrice(),
		Timestamp:  time.Now().UTC(),
		ItemIDs:    []string{},
	}

	orderID, err := s.orders.Insert(ctx, order)
	if err != nil {
		return nil, errors.WrapCreation(err, "failed to create order")
	}
	order.ID = orderID

	items := make([]domain.OrderItem, len(req.Items))
	for i, spec := range req.Items {
		items[i] = domain.OrderItem{
			OrderID:  orderID,
			Name:     spec.Name,
			Quantity: spec.Quantity,
			Price:    spec.Price,
		}
	}

	itemIDs, err := s.items.InsertMany(ctx, items)
	if err != nil {
		return nil, s.compensateCreate(ctx, orderID, itemIDs, err)
	}

	order.ItemIDs = itemIDs
	if err := s.orders.Replace(ctx, order); err != nil {
		return nil, errors.WrapCreation(err, "failed to attach items to order")
	}

	order.Items = items
	for i := range order.Items {
		order.Items[i].ID = itemIDs[i]
	}

	s.metrics.IncrementCounter("orders_created_total", nil)
	s.metrics.RecordDuration("order_create_duration_seconds", time.Since(start), nil)

	s.logger.Info(ctx, "Order created", map[string]interface{}{
		"order_id":    order.ID,
		"total_price": order.TotalPrice,
		"items":       len(order.Items),
	})

	s.publishCreated(ctx, order)

	return order, nil
}

// compensateCreate undoes a partially completed creation: it deletes any
// item documents the failed batch insert managed to write, then deletes the
// order document inserted in the first step.
func (s *OrderService) compensateCreate(ctx context.Context, orderID string, insertedItemIDs []string, cause error) error {
	s.metrics.IncrementCounter("order_create_compensations_total", nil)

	s.logger.Warn(ctx, "Item insert failed, rolling back order creation", map[string]interface{}{
		"order_id":       orderID,
		"inserted_items": len(insertedItemIDs),
		"cause":          cause.Error(),
	})

	if len(insertedItemIDs) > 0 {
		if err := s.items.DeleteByIDs(ctx, insertedItemIDs); err != nil {
			s.logger.Error(ctx, "Compensation failed: orphaned item documents remain", err, map[string]interface{}{
				"order_id": orderID,
				"item_ids": insertedItemIDs,
			})
			return errors.WrapCompensation(err, "failed to delete partially inserted items during rollback")
		}
	}

	if err := s.orders.DeleteByID(ctx, orderID); err != nil {
		s.logger.Error(ctx, "Compensation failed: orphaned order document remains", err, map[string]interface{}{
			"order_id": orderID,
		})
		return errors.WrapCompensation(err, "failed to delete order during rollback")
	}

	return errors.WrapCreation(cause, "failed to create order items, order creation rolled back")
}

// UpdateOrder reconciles the incoming item list against the stored items.
//
// Items carrying an id are updated in place, items without an id are
// created, and stored items not mentioned by id are deleted. The existing
// item set is always read from the item collection's back-references, not
// from the order document's item array, so the update self-heals any drift
// between the two. The three bulk operations run concurrently; no
// compensation is attempted on partial failure (a weaker guarantee than
// create, preserved deliberately).
func (s *OrderService) UpdateOrder(ctx context.Context, id string, req domain.UpdateOrderRequest) (*domain.Order, error) {
	start := time.Now()

	if !domain.IsValidID(id) {
		return nil, errors.NewValidation("invalid order id: " + id)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, err
		}
		return nil, errors.WrapUpdate(err, "failed to load order")
	}

	existingIDs, err := s.items.FindIDsByOrder(ctx, id)
	if err != nil {
		return nil, errors.WrapUpdate(err, "failed to load existing items")
	}

	toUpdate, toCreate := partitionItemSpecs(req.Items)
	toDelete := subtractIDs(existingIDs, itemSpecIDs(toUpdate))

	updateItems := make([]domain.OrderItem, len(toUpdate))
	for i, spec := range toUpdate {
		updateItems[i] = domain.OrderItem{
			ID:       spec.ID,
			OrderID:  id,
			Name:     spec.Name,
			Quantity: spec.Quantity,
			Price:    spec.Price,
		}
	}

	createItems := make([]domain.OrderItem, len(toCreate))
	for i, spec := range toCreate {
		createItems[i] = domain.OrderItem{
			OrderID:  id,
			Name:     spec.Name,
			Quantity: spec.Quantity,
			Price:    spec.Price,
		}
	}

	var createdIDs []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.items.BulkUpdate(gctx, updateItems)
	})
	g.Go(func() error {
		ids, err := s.items.InsertMany(gctx, createItems)
		createdIDs = ids
		return err
	})
	g.Go(func() error {
		return s.items.DeleteByIDs(gctx, toDelete)
	})

	if err := g.Wait(); err != nil {
		return nil, errors.WrapUpdate(err, "failed to reconcile order items")
	}

	order.Customer = req.Customer
	order.TotalPrice = req.TotalPrice()
	order.ItemIDs = append(itemSpecIDs(toUpdate), createdIDs...)

	if err := s.orders.Replace(ctx, order); err != nil {
		if errors.IsNotFound(err) {
			return nil, err
		}
		return nil, errors.WrapUpdate(err, "failed to replace order")
	}

	order.Items = make([]domain.OrderItem, 0, len(updateItems)+len(createItems))
	order.Items = append(order.Items, updateItems...)
	for i, item := range createItems {
		item.ID = createdIDs[i]
		order.Items = append(order.Items, item)
	}

	s.metrics.IncrementCounter("orders_updated_total", nil)
	s.metrics.RecordDuration("order_update_duration_seconds", time.Since(start), nil)

	s.logger.Info(ctx, "Order updated", map[string]interface{}{
		"order_id":    order.ID,
		"total_price": order.TotalPrice,
		"updated":     len(updateItems),
		"created":     len(createItems),
		"deleted":     len(toDelete),
	})

	s.publishUpdated(ctx, order)

	return order, nil
}

// FindOrder returns a single order with its items hydrated from the item
// collection.
func (s *OrderService) FindOrder(ctx context.Context, id string) (*domain.Order, error) {
	if !domain.IsValidID(id) {
		return nil, errors.NewValidation("invalid order id: " + id)
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.items.FindByOrder(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load order items")
	}
	order.Items = items

	return order, nil
}

// ListOrders returns all orders with their items hydrated
func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := s.items.FindByOrder(ctx, orders[i].ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load order items")
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (s *OrderService) publishCreated(ctx context.Context, order *domain.Order) {
	if s.events == nil {
		return
	}
	event := OrderEvent{
		OrderID:    order.ID,
		TotalPrice: order.TotalPrice,
		ItemCount:  len(order.ItemIDs),
		Timestamp:  order.Timestamp,
	}
	if err := s.events.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error(ctx, "Failed to publish order created event", err, map[string]interface{}{
			"order_id": order.ID,
		})
	}
}

func (s *OrderService) publishUpdated(ctx context.Context, order *domain.Order) {
	if s.events == nil {
		return
	}
	event := OrderEvent{
		OrderID:    order.ID,
		TotalPrice: order.TotalPrice,
		ItemCount:  len(order.ItemIDs),
		Timestamp:  time.Now().UTC(),
	}
	if err := s.events.PublishOrderUpdated(ctx, event); err != nil {
		s.logger.Error(ctx, "Failed to publish order updated event", err, map[string]interface{}{
			"order_id": order.ID,
		})
	}
}

// partitionItemSpecs splits incoming specs into updates (carry an id) and
// creates (no id).
func partitionItemSpecs(specs []domain.UpdateOrderItemSpec) (toUpdate, toCreate []domain.UpdateOrderItemSpec) {
	for _, spec := range specs {
		if spec.ID != "" {
			toUpdate = append(toUpdate, spec)
		} else {
			toCreate = append(toCreate, spec)
		}
	}
	return toUpdate, toCreate
}

func itemSpecIDs(specs []domain.UpdateOrderItemSpec) []string {
	ids := make([]string, len(specs))
	for i, spec := range specs {
		ids[i] = spec.ID
	}
	return ids
}

// subtractIDs returns the members of set that are absent from remove
func subtractIDs(set, remove []string) []string {
	removed := make(map[string]struct{}, len(remove))
	for _, id := range remove {
		removed[id] = struct{}{}
	}

	var result []string
	for _, id := range set {
		if _, ok := removed[id]; !ok {
			result = append(result, id)
		}
	}
	return result
}
