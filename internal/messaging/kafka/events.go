package kafka

import (
	"time"

	"github.com/adilbekov/orders-service/internal/service"
)

// Event types published to the order events topic
const (
	EventTypeOrderCreated = "order.created"
	EventTypeOrderUpdated = "order.updated"
)

// EventMetadata carries traceability fields on every published event
type EventMetadata struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	EventTime time.Time `json:"event_time"`
	Version   string    `json:"version"`
	Source    string    `json:"source"`
}

// OrderEventMessage is the wire envelope for order lifecycle events
type OrderEventMessage struct {
	service.OrderEvent
	EventMetadata EventMetadata `json:"metadata"`
}
