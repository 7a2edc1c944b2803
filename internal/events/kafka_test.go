package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:     primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
		Items: []domain.OrderItem{
			{ProductID: "a", Quantity: 2},
			{ProductID: "b", Quantity: 1},
		},
		TotalAmount: 30,
		Status:      domain.OrderStatusPending,
	}
}

func TestNewOrderEvent(t *testing.T) {
	order := sampleOrder()
	ev := NewOrderEvent(TypeOrderCreated, order)

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, order.ID.Hex(), ev.OrderID)
	assert.Equal(t, order.UserID.Hex(), ev.UserID)
	assert.Equal(t, 3, ev.ItemCount)
	assert.Equal(t, domain.OrderStatusPending, ev.Status)

	other := NewOrderEvent(TypeOrderCreated, order)
	assert.NotEqual(t, ev.ID, other.ID)
}

func TestKafkaPublisher_WritesKeyedMessage(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}
	ev := NewOrderEvent(TypeOrderStatusChanged, sampleOrder())

	require.NoError(t, p.Publish(context.Background(), ev))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, ev.OrderID, string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, TypeOrderStatusChanged, string(msg.Headers[0].Value))

	var decoded OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, ev.ID, decoded.ID)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker down")}}
	err := p.Publish(context.Background(), NewOrderEvent(TypeOrderCreated, sampleOrder()))
	assert.ErrorContains(t, err, "broker down")
}

func TestKafkaPublisher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping kafka container test in short mode")
	}
	ctx := context.Background()

	kafkaContainer, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)
	defer func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	}()

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)

	const topic = "order-events-test"
	p := NewKafkaPublisher(topic, brokers...)
	defer p.Close()

	ev := NewOrderEvent(TypeOrderCreated, sampleOrder())
	// the first write may race topic auto-creation
	require.Eventually(t, func() bool {
		return p.Publish(ctx, ev) == nil
	}, 30*time.Second, time.Second)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  "test-consumer",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err)
	assert.Equal(t, ev.OrderID, string(msg.Key))
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), OrderEvent{}))
	assert.NoError(t, p.Close())
}
