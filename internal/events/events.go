package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"repairdesk/internal/domain"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventOrderCommented     = "OrderCommented"
	EventOrderUpdated       = "OrderUpdated"
	EventOrderCanceled      = "OrderCanceled"
)

// TopicOrders is the default topic for order lifecycle events.
const TopicOrders = "repairdesk.orders"

type Envelope struct {
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	EventVersion  int             `json:"eventVersion"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlationId,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// NewOrderEnvelope wraps an order snapshot. The order id is the correlation id.
func NewOrderEnvelope(eventType, producer string, o domain.Order, at time.Time) (Envelope, error) {
	payload, err := json.Marshal(o)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode order payload: %w", err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    at.UTC(),
		Producer:      producer,
		CorrelationID: o.ID,
		Payload:       payload,
	}, nil
}

// DecodeOrder returns the order carried by an order event.
func (e Envelope) DecodeOrder() (domain.Order, error) {
	var o domain.Order
	if err := json.Unmarshal(e.Payload, &o); err != nil {
		return o, fmt.Errorf("decode payload: %w", err)
	}
	return o, nil
}

// Publisher отправляет события жизненного цикла заказа
type Publisher interface {
	Publish(ctx context.Context, key string, ev Envelope) error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Envelope) error { return nil }
