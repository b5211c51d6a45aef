package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/go_cart/assistant-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	DefaultTopic      = "orders-confirmed"
	EventTypeOrder    = "order_confirmed"
	defaultCurrency   = "INR"
	defaultWriteLimit = 2 * time.Second
)

// OrderNotifier is told about every confirmed order after the cart has been cleared
type OrderNotifier interface {
	OrderConfirmed(ctx context.Context, order *domain.Order) error
}

// Noop is used when no broker is configured
type Noop struct{}

func (Noop) OrderConfirmed(context.Context, *domain.Order) error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher emits one message per confirmed order
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w, timeout: defaultWriteLimit}
}

type orderItem struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

type orderConfirmedEvent struct {
	OrderID     string      `json:"order_id"`
	Items       []orderItem `json:"items"`
	TotalAmount int64       `json:"total_amount"`
	Currency    string      `json:"currency"`
	Status      string      `json:"status"`
	ConfirmedAt time.Time   `json:"confirmed_at"`
}

func (p *KafkaPublisher) OrderConfirmed(ctx context.Context, order *domain.Order) error {
	items := make([]orderItem, len(order.Lines))
	for i, l := range order.Lines {
		items[i] = orderItem{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.Price,
		}
	}

	payload, err := json.Marshal(orderConfirmedEvent{
		OrderID:     order.ID.String(),
		Items:       items,
		TotalAmount: order.TotalPrice,
		Currency:    defaultCurrency,
		Status:      order.Status.String(),
		ConfirmedAt: order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeOrder)},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order %s: %w", order.ID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
