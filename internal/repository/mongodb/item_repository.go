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

// orderItemDoc represents an order item document in MongoDB
type orderItemDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Quantity int                `bson:"quantity"`
	Price    float64            `bson:"price"`
	Order    primitive.ObjectID `bson:"order"`
}

// MongoOrderItemRepository implements interfaces.OrderItemRepository using MongoDB
type MongoOrderItemRepository struct {
	collection *mongo.Collection
	logger     logging.Logger
	timeout    time.Duration
}

// NewOrderItemRepository creates a new MongoDB order item repository
func NewOrderItemRepository(conn *mongodb.Connection, logger logging.Logger) *MongoOrderItemRepository {
	return &MongoOrderItemRepository{
		collection: conn.Collection(itemCollection),
		logger:     logger,
		timeout:    conn.QueryTimeout(),
	}
}

// EnsureIndexes creates the indexes the repository relies on
func (r *MongoOrderItemRepository) EnsureIndexes(ctx context.Context, conn *mongodb.Connection) error {
	return conn.CreateIndexes(ctx, itemCollection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "order", Value: 1}}},
	})
}

// InsertMany batch-inserts items. On failure it still returns the ids of any
// documents that were inserted so the caller can run compensation.
func (r *MongoOrderItemRepository) InsertMany(ctx context.Context, items []domain.OrderItem) ([]string, error) {
	if len(items) == 0 {
		return nil, nil
	}

	docs := make([]interface{}, len(items))
	for i, item := range items {
		orderID, err := primitive.ObjectIDFromHex(item.OrderID)
		if err != nil {
			return nil, errors.NewValidation(fmt.Sprintf("invalid order id %q", item.OrderID))
		}
		docs[i] = orderItemDoc{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Order:    orderID,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.InsertMany(ctx, docs)

	var ids []string
	if result != nil {
		for _, insertedID := range result.InsertedIDs {
			if oid, ok := insertedID.(primitive.ObjectID); ok {
				ids = append(ids, oid.Hex())
			}
		}
	}

	if err != nil {
		r.logger.Error(ctx, "Failed to insert order items", err, map[string]interface{}{
			"requested": len(items),
			"inserted":  len(ids),
		})
		return ids, errors.Wrap(err, "failed to insert order items")
	}

	return ids, nil
}

// BulkUpdate applies the mutable fields of each item by id in one bulk
// write. Ids that match no document are silently skipped by the store.
func (r *MongoOrderItemRepository) BulkUpdate(ctx context.Context, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, len(items))
	for i, item := range items {
		oid, err := primitive.ObjectIDFromHex(item.ID)
		if err != nil {
			return errors.NewValidation(fmt.Sprintf("invalid item id %q", item.ID))
		}
		models[i] = mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": oid}).
			SetUpdate(bson.M{"$set": bson.M{
				"name":     item.Name,
				"quantity": item.Quantity,
				"price":    item.Price,
			}})
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.BulkWrite(ctx, models)
	if err != nil {
		r.logger.Error(ctx, "Failed to bulk update order items", err, map[string]interface{}{
			"items": len(items),
		})
		return errors.Wrap(err, "failed to bulk update order items")
	}

	r.logger.Debug(ctx, "Order items bulk updated", map[string]interface{}{
		"matched":  result.MatchedCount,
		"modified": result.ModifiedCount,
	})

	return nil
}

// DeleteByIDs removes every item in the id set
func (r *MongoOrderItemRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	oids := make([]primitive.ObjectID, len(ids))
	for i, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return errors.NewValidation(fmt.Sprintf("invalid item id %q", id))
		}
		oids[i] = oid
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		r.logger.Error(ctx, "Failed to delete order items", err, map[string]interface{}{
			"items": len(ids),
		})
		return errors.Wrap(err, "failed to delete order items")
	}

	r.logger.Debug(ctx, "Order items deleted", map[string]interface{}{
		"requested": len(ids),
		"deleted":   result.DeletedCount,
	})

	return nil
}

// FindIDsByOrder returns the ids of all items owned by the order. The item
// collection's back-references are the authoritative ownership record.
func (r *MongoOrderItemRepository) FindIDsByOrder(ctx context.Context, orderID string) ([]string, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, errors.NewValidation(fmt.Sprintf("invalid order id %q", orderID))
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"order": oid},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find items by order")
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "failed to decode item id")
		}
		ids = append(ids, doc.ID.Hex())
	}

	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate item ids")
	}

	return ids, nil
}

// FindByOrder returns the full item documents owned by the order
func (r *MongoOrderItemRepository) FindByOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, errors.NewValidation(fmt.Sprintf("invalid order id %q", orderID))
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"order": oid})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find items by order")
	}
	defer cursor.Close(ctx)

	var items []domain.OrderItem
	for cursor.Next(ctx) {
		var doc orderItemDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "failed to decode order item")
		}
		items = append(items, domain.OrderItem{
			ID:       doc.ID.Hex(),
			OrderID:  doc.Order.Hex(),
			Name:     doc.Name,
			Quantity: doc.Quantity,
			Price:    doc.Price,
		})
	}

	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate order items")
	}

	return items, nil
}

// compile-time interface check
var _ interfaces.OrderItemRepository = (*MongoOrderItemRepository)(nil)
