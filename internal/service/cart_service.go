package service

import (
	"context"
	"errors"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
	"github.com/rs/zerolog"
)

// CartService mutates the cart embedded in the user document. Every mutation reads the cart,
// changes it in memory and writes it back whole; concurrent requests for the same user are
// not serialized and the last write wins.
type CartService struct {
	users    repository.UserRepository
	products repository.ProductRepository
	log      zerolog.Logger
}

func NewCartService(users repository.UserRepository, products repository.ProductRepository, log zerolog.Logger) *CartService {
	return &CartService{
		users:    users,
		products: products,
		log:      log.With().Str("component", "cart").Logger(),
	}
}

func (s *CartService) Get(ctx context.Context, userID string) (domain.Cart, error) {
	cart, err := s.users.GetCart(ctx, userID)
	if err != nil {
		return nil, translate(err, repository.ErrUserNotFound, msgUserNotFound)
	}
	return cart, nil
}

// Add snapshots the product into a new line, or bumps the existing line by one.
func (s *CartService) Add(ctx context.Context, userID, productID string) (domain.Cart, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, translate(err, repository.ErrProductNotFound, msgProductNotFound)
	}

	return s.mutate(ctx, userID, func(cart *domain.Cart) (bool, error) {
		cart.AddOrIncrement(domain.CartLine{
			ProductID: product.ID.Hex(),
			Title:     product.Title,
			Price:     product.Price,
			Image:     product.Thumbnail,
		})
		return true, nil
	})
}

func (s *CartService) Increment(ctx context.Context, userID, productID string) (domain.Cart, error) {
	return s.mutate(ctx, userID, func(cart *domain.Cart) (bool, error) {
		_, err := cart.Increment(productID)
		return true, lineError(err)
	})
}

// Decrement drops the line when its quantity would reach zero.
func (s *CartService) Decrement(ctx context.Context, userID, productID string) (domain.Cart, error) {
	return s.mutate(ctx, userID, func(cart *domain.Cart) (bool, error) {
		_, err := cart.Decrement(productID)
		return true, lineError(err)
	})
}

// Remove succeeds whether or not the line exists.
func (s *CartService) Remove(ctx context.Context, userID, productID string) (domain.Cart, error) {
	return s.mutate(ctx, userID, func(cart *domain.Cart) (bool, error) {
		return cart.Remove(productID), nil
	})
}

func (s *CartService) Clear(ctx context.Context, userID string) (domain.Cart, error) {
	if err := s.users.SaveCart(ctx, userID, domain.Cart{}); err != nil {
		return nil, translate(err, repository.ErrUserNotFound, msgUserNotFound)
	}
	return domain.Cart{}, nil
}

func (s *CartService) mutate(ctx context.Context, userID string, fn func(cart *domain.Cart) (bool, error)) (domain.Cart, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	changed, err := fn(&cart)
	if err != nil {
		return nil, err
	}
	if !changed {
		return cart, nil
	}

	if err := s.users.SaveCart(ctx, userID, cart); err != nil {
		return nil, translate(err, repository.ErrUserNotFound, msgUserNotFound)
	}
	return cart, nil
}

func lineError(err error) error {
	if errors.Is(err, domain.ErrLineNotFound) {
		return domain.NotFound("%s", msgItemNotFound)
	}
	return err
}
