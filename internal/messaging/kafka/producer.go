package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"github.com/adilbekov/orders-service/internal/platform/errors"
	"github.com/adilbekov/orders-service/internal/platform/observability/logging"
	"github.com/adilbekov/orders-service/internal/service"
)

const sourceService = "orders-service"

// Producer publishes order lifecycle events to a Kafka topic
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   logging.Logger
}

// NewProducer creates a new Kafka producer for order events
func NewProducer(brokers []string, topic string, retries int, logger logging.Logger) (*Producer, error) {
	config := sarama.NewConfig()

	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = retries
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true

	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Flush.Frequency = 500 * time.Millisecond

	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1 // required for the idempotent producer

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Kafka producer")
	}

	logger.Info(context.Background(), "Kafka producer created", map[string]interface{}{
		"brokers": brokers,
		"topic":   topic,
	})

	return &Producer{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}, nil
}

// PublishOrderCreated publishes an order.created event
func (p *Producer) PublishOrderCreated(ctx context.Context, event service.OrderEvent) error {
	return p.publish(ctx, EventTypeOrderCreated, event)
}

// PublishOrderUpdated publishes an order.updated event
func (p *Producer) PublishOrderUpdated(ctx context.Context, event service.OrderEvent) error {
	return p.publish(ctx, EventTypeOrderUpdated, event)
}

func (p *Producer) publish(ctx context.Context, eventType string, event service.OrderEvent) error {
	message := OrderEventMessage{
		OrderEvent: event,
		EventMetadata: EventMetadata{
			EventID:   uuid.New().String(),
			EventType: eventType,
			EventTime: time.Now().UTC(),
			Version:   "1.0",
			Source:    sourceService,
		},
	}

	data, err := json.Marshal(message)
	if err != nil {
		return errors.Wrap(err, "failed to marshal order event")
	}

	// Partition by order id so events for one order stay ordered
	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.OrderID),
		Value:     sarama.ByteEncoder(data),
		Timestamp: message.EventMetadata.EventTime,
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(eventType)},
			{Key: []byte("event-id"), Value: []byte(message.EventMetadata.EventID)},
			{Key: []byte("source-service"), Value: []byte(sourceService)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Error(ctx, "Failed to publish order event", err, map[string]interface{}{
			"order_id":   event.OrderID,
			"event_type": eventType,
			"topic":      p.topic,
		})
		return errors.Wrap(err, "failed to publish order event")
	}

	p.logger.Debug(ctx, "Order event published", map[string]interface{}{
		"order_id":   event.OrderID,
		"event_type": eventType,
		"partition":  partition,
		"offset":     offset,
	})

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// compile-time interface check
var _ service.EventPublisher = (*Producer)(nil)
