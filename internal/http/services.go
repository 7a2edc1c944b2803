package http

import (
	"context"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (service.RegisterResult, error)
	Login(ctx context.Context, email, password string) (*service.Session, error)
	Authenticate(token string) (string, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	RequireAdmin(ctx context.Context, userID string) (*domain.User, error)
	MakeAdmin(ctx context.Context, email string) (domain.UserSummary, error)
}

type CatalogService interface {
	List(ctx context.Context, category string) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Import(ctx context.Context) (domain.ImportResult, error)
}

type CartService interface {
	Get(ctx context.Context, userID string) (domain.Cart, error)
	Add(ctx context.Context, userID, productID string) (domain.Cart, error)
	Increment(ctx context.Context, userID, productID string) (domain.Cart, error)
	Decrement(ctx context.Context, userID, productID string) (domain.Cart, error)
	Remove(ctx context.Context, userID, productID string) (domain.Cart, error)
	Clear(ctx context.Context, userID string) (domain.Cart, error)
}

type OrderService interface {
	Checkout(ctx context.Context, userID string, stripeSessionID *string) (*domain.Order, error)
	List(ctx context.Context, userID string) ([]domain.Order, error)
	Get(ctx context.Context, userID, orderID string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, userID, orderID, status string) (*domain.Order, error)
	Complete(ctx context.Context, userID, orderID string) (*domain.Order, error)
}
