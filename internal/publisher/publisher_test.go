package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fjod/go_cart/assistant-service/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type writerMock struct {
	msgs     []kafka.Message
	err      error
	deadline bool
	closed   bool
}

func (w *writerMock) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	_, w.deadline = ctx.Deadline()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *writerMock) Close() error {
	w.closed = true
	return nil
}

func testOrder() *domain.Order {
	return &domain.Order{
		ID: uuid.MustParse("6f1c2f4e-8a52-4b7a-9c39-2d8f0f8b7a10"),
		Lines: []domain.CartLine{
			{ProductID: 1, Name: "Backpack", Price: 1499, Quantity: 1},
			{ProductID: 1, Name: "Backpack", Price: 1499, Quantity: 1},
		},
		TotalPrice: 2998,
		Status:     domain.OrderStatusConfirmed,
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestKafkaPublisher_OrderConfirmed(t *testing.T) {
	w := &writerMock{}
	p := &KafkaPublisher{writer: w, timeout: time.Second}

	require.NoError(t, p.OrderConfirmed(context.Background(), testOrder()))
	require.Len(t, w.msgs, 1)
	assert.True(t, w.deadline)

	msg := w.msgs[0]
	assert.Equal(t, "6f1c2f4e-8a52-4b7a-9c39-2d8f0f8b7a10", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, EventTypeOrder, string(msg.Headers[0].Value))

	var event orderConfirmedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, int64(2998), event.TotalAmount)
	assert.Equal(t, "INR", event.Currency)
	assert.Equal(t, "confirmed", event.Status)
	assert.Len(t, event.Items, 2)
	assert.Equal(t, int64(1499), event.Items[0].UnitPrice)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	cause := errors.New("broker down")
	p := &KafkaPublisher{writer: &writerMock{err: cause}, timeout: time.Second}

	err := p.OrderConfirmed(context.Background(), testOrder())
	assert.ErrorIs(t, err, cause)
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &writerMock{}
	p := &KafkaPublisher{writer: w, timeout: time.Second}

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewKafkaPublisher_DefaultTopic(t *testing.T) {
	p := NewKafkaPublisher("", "localhost:9092")
	defer p.Close()

	assert.Equal(t, DefaultTopic, p.writer.(*kafka.Writer).Topic)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.OrderConfirmed(context.Background(), testOrder()))
}
