// Package notify publishes order lifecycle events for the out-of-band
// notification pipeline (confirmation and status-update emails). Publishing
// is fire-and-forget from the checkout's perspective: callers log failures
// and move on.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
	"github.com/segmentio/kafka-go"
)

const (
	EventOrderConfirmed     = "OrderConfirmed"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type orderEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId"`
	Status     string    `json:"status"`
	OldStatus  string    `json:"oldStatus,omitempty"`
	TotalCents int64     `json:"totalCents"`
	OrderDate  time.Time `json:"orderDate"`
	EmittedAt  time.Time `json:"emittedAt"`
}

// KafkaPublisher writes order events to a single topic, keyed by order id so
// events for one order stay ordered within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) OrderConfirmed(ctx context.Context, o orderdomain.Order) error {
	return p.publish(ctx, orderEvent{
		Type:       EventOrderConfirmed,
		OrderID:    o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		TotalCents: o.TotalCents,
		OrderDate:  o.OrderDate,
	})
}

func (p *KafkaPublisher) OrderStatusChanged(ctx context.Context, o orderdomain.Order, old orderdomain.Status) error {
	return p.publish(ctx, orderEvent{
		Type:       EventOrderStatusChanged,
		OrderID:    o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		OldStatus:  string(old),
		TotalCents: o.TotalCents,
		OrderDate:  o.OrderDate,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func (p *KafkaPublisher) publish(ctx context.Context, ev orderEvent) error {
	ev.EmittedAt = time.Now().UTC()

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Type, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.OrderID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publish %s event: %w", ev.Type, err)
	}
	return nil
}

// LogNotifier is the documented no-op used when no brokers are configured:
// events are only recorded in the service log.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) OrderConfirmed(_ context.Context, o orderdomain.Order) error {
	n.log.Info("order confirmed",
		slog.String("order_id", o.ID),
		slog.String("user_id", o.UserID),
		slog.Int64("total_cents", o.TotalCents))
	return nil
}

func (n *LogNotifier) OrderStatusChanged(_ context.Context, o orderdomain.Order, old orderdomain.Status) error {
	n.log.Info("order status changed",
		slog.String("order_id", o.ID),
		slog.String("from", string(old)),
		slog.String("to", string(o.Status)))
	return nil
}
