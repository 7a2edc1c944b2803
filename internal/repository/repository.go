package repository

import (
	"context"
	"errors"

	"github.com/fjod/storefront/internal/domain"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrDuplicateEmail  = errors.New("email already registered")
)

// Ids are hex ObjectIDs. A malformed id behaves like a missing document.

type UserRepository interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	SetAdmin(ctx context.Context, email string) (*domain.User, error)
	AnyAdmin(ctx context.Context) (bool, error)
	GetCart(ctx context.Context, userID string) (domain.Cart, error)
	SaveCart(ctx context.Context, userID string, cart domain.Cart) error
	ClaimAdminBootstrap(ctx context.Context) (bool, error)
	ReleaseAdminBootstrap(ctx context.Context) error
}

type ProductRepository interface {
	List(ctx context.Context, category string) ([]domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, id string, set map[string]any) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	FindForUser(ctx context.Context, userID, orderID string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, userID, orderID string, status domain.OrderStatus) (*domain.Order, error)
}
