package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"repairdesk/internal/domain"
)

func TestNewOrderEnvelope(t *testing.T) {
	o := domain.Order{
		ID:          "7b1f0c2e-1111-4c4c-9999-000000000001",
		OrderNumber: "ORD-123456-001",
		Status:      domain.OrderStatusNew,
		Comments:    []string{},
		ItemDetails: domain.QuoteItem(domain.Quote{ID: 1, Product: "iPhone 13 Screen"}),
	}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	ev, err := NewOrderEnvelope(EventOrderCreated, "repairdesk", o, at)
	require.NoError(t, err)
	require.NotEmpty(t, ev.EventID)
	require.Equal(t, 1, ev.EventVersion)
	require.Equal(t, o.ID, ev.CorrelationID)
	require.Equal(t, time.UTC, ev.OccurredAt.Location())

	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	require.Equal(t, "OrderCreated", generic["eventType"])

	back, err := ev.DecodeOrder()
	require.NoError(t, err)
	require.Equal(t, o.OrderNumber, back.OrderNumber)
	require.Equal(t, "iPhone 13 Screen", back.ItemDetails.Label())
}

func TestMessageCarrier_RoundTrip(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	msg := kafka.Message{Headers: []kafka.Header{{Key: "x-event-type", Value: []byte("OrderCreated")}}}
	prop := propagation.TraceContext{}
	prop.Inject(ctx, NewMessageCarrier(&msg))

	require.Contains(t, NewMessageCarrier(&msg).Keys(), "traceparent")
	require.Equal(t, "OrderCreated", NewMessageCarrier(&msg).Get("x-event-type"))

	extracted := trace.SpanContextFromContext(prop.Extract(context.Background(), NewMessageCarrier(&msg)))
	require.Equal(t, traceID, extracted.TraceID())

	c := NewMessageCarrier(&msg)
	c.Set("x-event-type", "OrderCanceled")
	require.Equal(t, "OrderCanceled", c.Get("x-event-type"))
	require.Len(t, msg.Headers, 2)
}

func TestNopPublisher(t *testing.T) {
	require.NoError(t, NopPublisher{}.Publish(context.Background(), "k", Envelope{}))
}
