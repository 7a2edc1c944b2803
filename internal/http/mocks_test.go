package http

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/service"
)

const (
	userToken  = "user-token"
	adminToken = "admin-token"
	userID     = "65f0c0ffee0000000000aaaa"
	adminID    = "65f0c0ffee0000000000bbbb"
)

type mockAuthService struct {
	registerRes service.RegisterResult
	session     *service.Session
	user        *domain.User
	summary     domain.UserSummary
	err         error
}

func (m *mockAuthService) Register(context.Context, string, string, string) (service.RegisterResult, error) {
	return m.registerRes, m.err
}

func (m *mockAuthService) Login(context.Context, string, string) (*service.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *mockAuthService) Authenticate(token string) (string, error) {
	switch token {
	case userToken:
		return userID, nil
	case adminToken:
		return adminID, nil
	case "":
		return "", domain.NewError(domain.ErrUnauthenticated, "Token missing.")
	default:
		return "", domain.NewError(domain.ErrUnauthenticated, "Unauthorized.")
	}
}

func (m *mockAuthService) CurrentUser(_ context.Context, id string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user != nil {
		return m.user, nil
	}
	return &domain.User{Name: "Ann", Email: "ann@x.io", IsAdmin: id == adminID}, nil
}

func (m *mockAuthService) RequireAdmin(_ context.Context, id string) (*domain.User, error) {
	if id != adminID {
		return nil, domain.NewError(domain.ErrForbidden, "Access denied. Admin privileges required.")
	}
	return &domain.User{IsAdmin: true}, nil
}

func (m *mockAuthService) MakeAdmin(context.Context, string) (domain.UserSummary, error) {
	return m.summary, m.err
}

type mockCatalogService struct {
	m          sync.Mutex
	products   []domain.Product
	product    *domain.Product
	categories []string
	importRes  domain.ImportResult
	err        error
	gotCat     string
	gotID      string
	gotInput   domain.ProductInput
}

func (m *mockCatalogService) List(_ context.Context, category string) ([]domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.gotCat = category
	return m.products, m.err
}

func (m *mockCatalogService) Categories(context.Context) ([]string, error) {
	return m.categories, m.err
}

func (m *mockCatalogService) Get(_ context.Context, id string) (*domain.Product, error) {
	m.gotID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.product, nil
}

func (m *mockCatalogService) Create(_ context.Context, in domain.ProductInput) (*domain.Product, error) {
	m.gotInput = in
	if m.err != nil {
		return nil, m.err
	}
	return m.product, nil
}

func (m *mockCatalogService) Update(_ context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	m.gotID = id
	m.gotInput = in
	if m.err != nil {
		return nil, m.err
	}
	return m.product, nil
}

func (m *mockCatalogService) Delete(_ context.Context, id string) error {
	m.gotID = id
	return m.err
}

func (m *mockCatalogService) Import(context.Context) (domain.ImportResult, error) {
	return m.importRes, m.err
}

type mockCartService struct {
	cart      domain.Cart
	err       error
	gotUser   string
	gotProdID string
	lastOp    string
}

func (m *mockCartService) record(op, user, product string) (domain.Cart, error) {
	m.lastOp, m.gotUser, m.gotProdID = op, user, product
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

func (m *mockCartService) Get(_ context.Context, u string) (domain.Cart, error) {
	return m.record("get", u, "")
}

func (m *mockCartService) Add(_ context.Context, u, p string) (domain.Cart, error) {
	return m.record("add", u, p)
}

func (m *mockCartService) Increment(_ context.Context, u, p string) (domain.Cart, error) {
	return m.record("increment", u, p)
}

func (m *mockCartService) Decrement(_ context.Context, u, p string) (domain.Cart, error) {
	return m.record("decrement", u, p)
}

func (m *mockCartService) Remove(_ context.Context, u, p string) (domain.Cart, error) {
	return m.record("remove", u, p)
}

func (m *mockCartService) Clear(_ context.Context, u string) (domain.Cart, error) {
	return m.record("clear", u, "")
}

type mockOrderService struct {
	order     *domain.Order
	orders    []domain.Order
	err       error
	gotUser   string
	gotOrder  string
	gotStatus string
	gotStripe *string
}

func (m *mockOrderService) Checkout(_ context.Context, u string, sid *string) (*domain.Order, error) {
	m.gotUser, m.gotStripe = u, sid
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *mockOrderService) List(_ context.Context, u string) ([]domain.Order, error) {
	m.gotUser = u
	return m.orders, m.err
}

func (m *mockOrderService) Get(_ context.Context, u, o string) (*domain.Order, error) {
	m.gotUser, m.gotOrder = u, o
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *mockOrderService) UpdateStatus(_ context.Context, u, o, s string) (*domain.Order, error) {
	m.gotUser, m.gotOrder, m.gotStatus = u, o, s
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *mockOrderService) Complete(_ context.Context, u, o string) (*domain.Order, error) {
	m.gotUser, m.gotOrder = u, o
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

var errBoom = errors.New("mongo: connection reset")

func sessionFor(user *domain.User) *service.Session {
	return &service.Session{
		Token:   "signed.jwt.token",
		Expires: time.Now().Add(time.Hour),
		User:    user,
		Message: "Login Successfull.",
	}
}
