package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adilbekov/orders-service/internal/domain"
	"github.com/adilbekov/orders-service/internal/platform/database/mongodb"
	"github.com/adilbekov/orders-service/internal/platform/errors"
	"github.com/adilbekov/orders-service/internal/platform/observability/logging"
	"github.com/adilbekov/orders-service/internal/repository/interfaces"
)

const (
	orderCollection = "orders"
	itemCollection  = "order_items"

	topItemsLimit = 10
)

// MongoDB document models - separate from domain models to keep the wire
// representation independent of the business types.

// customerDoc represents embedded customer info in MongoDB
type customerDoc struct {
	Name  string `bson:"name"`
	Phone string `bson:"phone"`
	Email string `bson:"email"`
}

// orderDoc represents an order document in MongoDB
type orderDoc struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	Customer   customerDoc          `bson:"customer"`
	TotalPrice float64              `bson:"total_price"`
	Timestamp  time.Time            `bson:"timestamp"`
	Items      []primitive.ObjectID `bson:"items"`
}

// salesReportDoc is the shape produced by the daily sales pipeline
type salesReportDoc struct {
	TotalOrders  int64          `bson:"total_orders"`
	TotalRevenue float64        `bson:"total_revenue"`
	TopItems     []itemSalesDoc `bson:"top_items"`
}

type itemSalesDoc struct {
	Name          string  `bson:"_id"`
	TotalQuantity int64   `bson:"total_quantity"`
	TotalRevenue  float64 `bson:"total_revenue"`
}

// MongoOrderRepository implements interfaces.OrderRepository using MongoDB
type MongoOrderRepository struct {
	collection *mongo.Collection
	logger     logging.Logger
	timeout    time.Duration
}

// NewOrderRepository creates a new MongoDB order repository
func NewOrderRepository(conn *mongodb.Connection, logger logging.Logger) *MongoOrderRepository {
	return &MongoOrderRepository{
		collection: conn.Collection(orderCollection),
		logger:     logger,
		timeout:    conn.QueryTimeout(),
	}
}

// EnsureIndexes creates the indexes the repository relies on
func (r *MongoOrderRepository) EnsureIndexes(ctx context.Context, conn *mongodb.Connection) error {
	return conn.CreateIndexes(ctx, orderCollection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: 1}}},
	})
}

// Insert stores a new order document and returns the store-assigned id
func (r *MongoOrderRepository) Insert(ctx context.Context, order *domain.Order) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc, err := orderToDocument(order)
	if err != nil {
		return "", err
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Error(ctx, "Failed to insert order", err)
		return "", errors.Wrap(err, "failed to insert order")
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.NewInternal("unexpected inserted id type for order")
	}

	r.logger.Debug(ctx, "Order inserted", map[string]interface{}{
		"order_id": id.Hex(),
	})

	return id.Hex(), nil
}

// FindByID returns the order with the given id
func (r *MongoOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.NewValidation(fmt.Sprintf("invalid order id %q", id))
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc orderDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NewNotFound(fmt.Sprintf("order %s not found", id))
		}
		r.logger.Error(ctx, "Failed to find order", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, errors.Wrap(err, "failed to find order")
	}

	return documentToOrder(&doc), nil
}

// FindAll returns all order documents
func (r *MongoOrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		r.logger.Error(ctx, "Failed to list orders", err)
		return nil, errors.Wrap(err, "failed to list orders")
	}
	defer cursor.Close(ctx)

	var orders []domain.Order
	for cursor.Next(ctx) {
		var doc orderDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "failed to decode order")
		}
		orders = append(orders, *documentToOrder(&doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate orders")
	}

	return orders, nil
}

// Replace persists the full order document under its existing id
func (r *MongoOrderRepository) Replace(ctx context.Context, order *domain.Order) error {
	oid, err := primitive.ObjectIDFromHex(order.ID)
	if err != nil {
		return errors.NewValidation(fmt.Sprintf("invalid order id %q", order.ID))
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc, err := orderToDocument(order)
	if err != nil {
		return err
	}
	doc.ID = oid

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		r.logger.Error(ctx, "Failed to replace order", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return errors.Wrap(err, "failed to replace order")
	}

	if result.MatchedCount == 0 {
		return errors.NewNotFound(fmt.Sprintf("order %s not found", order.ID))
	}

	return nil
}

// DeleteByID removes the order document. Deleting an already-absent order is
// not an error; the compensation path must be idempotent.
func (r *MongoOrderRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.NewValidation(fmt.Sprintf("invalid order id %q", id))
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		r.logger.Error(ctx, "Failed to delete order", err, map[string]interface{}{
			"order_id": id,
		})
		return errors.Wrap(err, "failed to delete order")
	}

	return nil
}

// AggregateDailySales runs the daily rollup pipeline over orders in
// [start, end], joining each matched order against its items.
func (r *MongoOrderRepository) AggregateDailySales(ctx context.Context, start, end time.Time) (*domain.SalesReport, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"timestamp": bson.M{"$gte": start, "$lte": end},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         itemCollection,
			"localField":   "items",
			"foreignField": "_id",
			"as":           "item_details",
		}}},
		{{Key: "$facet", Value: bson.M{
			"items_summary": bson.A{
				bson.M{"$unwind": "$item_details"},
				bson.M{"$group": bson.M{
					"_id":            "$item_details.name",
					"total_quantity": bson.M{"$sum": "$item_details.quantity"},
					"total_revenue": bson.M{"$sum": bson.M{
						"$multiply": bson.A{"$item_details.quantity", "$item_details.price"},
					}},
				}},
				bson.M{"$sort": bson.M{"total_quantity": -1}},
				bson.M{"$limit": topItemsLimit},
			},
			"overall_summary": bson.A{
				bson.M{"$group": bson.M{
					"_id":          nil,
					"total_orders": bson.M{"$sum": 1},
					"total_revenue": bson.M{"$sum": bson.M{"$sum": bson.M{
						"$map": bson.M{
							"input": "$item_details",
							"as":    "item",
							"in":    bson.M{"$multiply": bson.A{"$$item.quantity", "$$item.price"}},
						},
					}}},
				}},
			},
		}}},
		{{Key: "$project", Value: bson.M{
			"total_orders": bson.M{"$ifNull": bson.A{
				bson.M{"$arrayElemAt": bson.A{"$overall_summary.total_orders", 0}}, 0,
			}},
			"total_revenue": bson.M{"$ifNull": bson.A{
				bson.M{"$arrayElemAt": bson.A{"$overall_summary.total_revenue", 0}}, 0,
			}},
			"top_items": "$items_summary",
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error(ctx, "Daily sales aggregation failed", err)
		return nil, errors.Wrap(err, "daily sales aggregation failed")
	}
	defer cursor.Close(ctx)

	var doc salesReportDoc
	if cursor.Next(ctx) {
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "failed to decode sales report")
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "daily sales aggregation failed")
	}

	report := &domain.SalesReport{
		TotalOrders:  doc.TotalOrders,
		TotalRevenue: doc.TotalRevenue,
		TopItems:     make([]domain.ItemSales, len(doc.TopItems)),
	}
	for i, item := range doc.TopItems {
		report.TopItems[i] = domain.ItemSales{
			Name:          item.Name,
			TotalQuantity: item.TotalQuantity,
			TotalRevenue:  item.TotalRevenue,
		}
	}

	return report, nil
}

// Conversion helpers

func orderToDocument(order *domain.Order) (*orderDoc, error) {
	itemIDs := make([]primitive.ObjectID, len(order.ItemIDs))
	for i, id := range order.ItemIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, errors.NewValidation(fmt.Sprintf("invalid item id %q", id))
		}
		itemIDs[i] = oid
	}

	return &orderDoc{
		Customer: customerDoc{
			Name:  order.Customer.Name,
			Phone: order.Customer.Phone,
			Email: order.Customer.Email,
		},
		TotalPrice: order.TotalPrice,
		Timestamp:  order.Timestamp,
		Items:      itemIDs,
	}, nil
}

func documentToOrder(doc *orderDoc) *domain.Order {
	itemIDs := make([]string, len(doc.Items))
	for i, oid := range doc.Items {
		itemIDs[i] = oid.Hex()
	}

	return &domain.Order{
		ID: doc.ID.Hex(),
		Customer: domain.Customer{
			Name:  doc.Customer.Name,
			Phone: doc.Customer.Phone,
			Email: doc.Customer.Email,
		},
		TotalPrice: doc.TotalPrice,
		Timestamp:  doc.Timestamp,
		ItemIDs:    itemIDs,
	}
}

// compile-time interface check
var _ interfaces.OrderRepository = (*MongoOrderRepository)(nil)
