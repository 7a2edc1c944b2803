package service

import (
	"context"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/events"
	"github.com/fjod/storefront/internal/repository"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderService struct {
	orders    repository.OrderRepository
	users     repository.UserRepository
	publisher events.Publisher
	log       zerolog.Logger
}

func NewOrderService(orders repository.OrderRepository, users repository.UserRepository, publisher events.Publisher, log zerolog.Logger) *OrderService {
	return &OrderService{
		orders:    orders,
		users:     users,
		publisher: publisher,
		log:       log.With().Str("component", "orders").Logger(),
	}
}

// Create records a pending order holding a copy of items.
func (s *OrderService) Create(ctx context.Context, userID string, items []domain.OrderItem, total float64, stripeSessionID *string) (*domain.Order, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.NotFound("%s", msgUserNotFound)
	}

	order := &domain.Order{
		UserID:          uid,
		Items:           append([]domain.OrderItem{}, items...),
		TotalAmount:     total,
		StripeSessionID: stripeSessionID,
		Status:          domain.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeOrderCreated, order)
	return order, nil
}

// Checkout turns the user's current cart into a pending order. The cart itself is left alone
// until the order is completed.
func (s *OrderService) Checkout(ctx context.Context, userID string, stripeSessionID *string) (*domain.Order, error) {
	cart, err := s.users.GetCart(ctx, userID)
	if err != nil {
		return nil, translate(err, repository.ErrUserNotFound, msgUserNotFound)
	}
	if len(cart) == 0 {
		return nil, domain.Validation("Cart is empty.")
	}

	return s.Create(ctx, userID, cart.Snapshot(), cart.Total().InexactFloat64(), stripeSessionID)
}

func (s *OrderService) List(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) Get(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.orders.FindForUser(ctx, userID, orderID)
	if err != nil {
		return nil, translate(err, repository.ErrOrderNotFound, msgOrderNotFound)
	}
	return order, nil
}

// UpdateStatus sets any valid status. Transitions are not checked for direction.
func (s *OrderService) UpdateStatus(ctx context.Context, userID, orderID, status string) (*domain.Order, error) {
	st, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.UpdateStatus(ctx, userID, orderID, st)
	if err != nil {
		return nil, translate(err, repository.ErrOrderNotFound, msgOrderNotFound)
	}

	s.publish(ctx, events.TypeOrderStatusChanged, order)
	return order, nil
}

// Complete marks the order completed and empties the cart. Repeating it is harmless; if the
// cart write fails the order stays completed and a retry finishes the job.
func (s *OrderService) Complete(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.Get(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case domain.OrderStatusCancelled:
		return nil, domain.Validation("Cancelled orders cannot be completed.")
	case domain.OrderStatusPending:
		order, err = s.orders.UpdateStatus(ctx, userID, orderID, domain.OrderStatusCompleted)
		if err != nil {
			return nil, translate(err, repository.ErrOrderNotFound, msgOrderNotFound)
		}
		s.publish(ctx, events.TypeOrderStatusChanged, order)
	}

	if err := s.users.SaveCart(ctx, userID, domain.Cart{}); err != nil {
		return nil, translate(err, repository.ErrUserNotFound, msgUserNotFound)
	}
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *domain.Order) {
	ev := events.NewOrderEvent(eventType, order)
	if err := s.publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
		s.log.Warn().Err(err).Str("event", eventType).Str("order_id", ev.OrderID).Msg("order event publish failed")
	}
}
