package events

import (
	"context"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/google/uuid"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the JSON body published for every order lifecycle change.
type OrderEvent struct {
	ID          string             `json:"id"`
	Type        string             `json:"type"`
	OrderID     string             `json:"orderId"`
	UserID      string             `json:"userId"`
	Status      domain.OrderStatus `json:"status"`
	TotalAmount float64            `json:"totalAmount"`
	ItemCount   int                `json:"itemCount"`
	OccurredAt  time.Time          `json:"occurredAt"`
}

func NewOrderEvent(eventType string, order *domain.Order) OrderEvent {
	count := 0
	for _, it := range order.Items {
		count += it.Quantity
	}
	return OrderEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		OrderID:     order.ID.Hex(),
		UserID:      order.UserID.Hex(),
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		ItemCount:   count,
		OccurredAt:  time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OrderEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
