package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/storefront/internal/cache"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/events"
	"github.com/fjod/storefront/internal/feed"
	"github.com/fjod/storefront/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockUserRepository struct {
	m         sync.RWMutex
	users     map[string]*domain.User // keyed by hex id
	claimed   bool
	createErr error
	saveErr   error
	released  int
	saves     int
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: map[string]*domain.User{}}
}

func (m *mockUserRepository) add(u domain.User) *domain.User {
	m.m.Lock()
	defer m.m.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.users[u.ID.Hex()] = &u
	return &u
}

func (m *mockUserRepository) get(id string) *domain.User {
	m.m.RLock()
	defer m.m.RUnlock()
	u := *m.users[id]
	return &u
}

func (m *mockUserRepository) Count(context.Context) (int64, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	return int64(len(m.users)), nil
}

func (m *mockUserRepository) Create(_ context.Context, user *domain.User) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	stored := *user
	m.users[user.ID.Hex()] = &stored
	return nil
}

func (m *mockUserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (m *mockUserRepository) SetAdmin(_ context.Context, email string) (*domain.User, error) {
	m.m.Lock()
	defer m.m.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u.IsAdmin = true
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) AnyAdmin(context.Context) (bool, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	for _, u := range m.users {
		if u.IsAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) GetCart(_ context.Context, userID string) (domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return append(domain.Cart{}, u.Cart...), nil
}

func (m *mockUserRepository) SaveCart(_ context.Context, userID string, cart domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Cart = append(domain.Cart{}, cart...)
	return nil
}

func (m *mockUserRepository) ClaimAdminBootstrap(context.Context) (bool, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.claimed {
		return false, nil
	}
	m.claimed = true
	return true, nil
}

func (m *mockUserRepository) ReleaseAdminBootstrap(context.Context) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.claimed = false
	m.released++
	return nil
}

type mockProductRepository struct {
	m         sync.RWMutex
	products  map[string]*domain.Product
	createErr map[string]error // by title
	listCalls int
	catCalls  int
}

func newMockProductRepository(products ...domain.Product) *mockProductRepository {
	m := &mockProductRepository{products: map[string]*domain.Product{}, createErr: map[string]error{}}
	for i := range products {
		p := products[i]
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		m.products[p.ID.Hex()] = &p
	}
	return m
}

func (m *mockProductRepository) List(_ context.Context, category string) ([]domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.listCalls++
	out := []domain.Product{}
	for _, p := range m.products {
		if category == domain.AllCategories || p.Category == category {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepository) FindByID(_ context.Context, id string) (*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	c := *p
	return &c, nil
}

func (m *mockProductRepository) ExistsByTitle(_ context.Context, title string) (bool, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	for _, p := range m.products {
		if p.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockProductRepository) Create(_ context.Context, product *domain.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	if err := m.createErr[product.Title]; err != nil {
		return err
	}
	product.ID = primitive.NewObjectID()
	c := *product
	m.products[product.ID.Hex()] = &c
	return nil
}

func (m *mockProductRepository) Update(_ context.Context, id string, set map[string]any) (*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	if v, ok := set["price"]; ok {
		p.Price = v.(float64)
	}
	if v, ok := set["title"]; ok {
		p.Title = v.(string)
	}
	if v, ok := set["rating"]; ok {
		p.Rating = v.(float64)
	}
	c := *p
	return &c, nil
}

func (m *mockProductRepository) Delete(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) Categories(context.Context) ([]string, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.catCalls++
	seen := map[string]bool{}
	out := []string{}
	for _, p := range m.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

type mockOrderRepository struct {
	m      sync.RWMutex
	orders []*domain.Order
}

func (m *mockOrderRepository) Create(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	order.ID = primitive.NewObjectID()
	order.OrderDate = time.Now()
	c := *order
	m.orders = append(m.orders, &c)
	return nil
}

func (m *mockOrderRepository) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	out := []domain.Order{}
	for i := len(m.orders) - 1; i >= 0; i-- {
		if m.orders[i].UserID.Hex() == userID {
			out = append(out, *m.orders[i])
		}
	}
	return out, nil
}

func (m *mockOrderRepository) find(userID, orderID string) *domain.Order {
	for _, o := range m.orders {
		if o.ID.Hex() == orderID && o.UserID.Hex() == userID {
			return o
		}
	}
	return nil
}

func (m *mockOrderRepository) FindForUser(_ context.Context, userID, orderID string) (*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	o := m.find(userID, orderID)
	if o == nil {
		return nil, repository.ErrOrderNotFound
	}
	c := *o
	return &c, nil
}

func (m *mockOrderRepository) UpdateStatus(_ context.Context, userID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	o := m.find(userID, orderID)
	if o == nil {
		return nil, repository.ErrOrderNotFound
	}
	o.Status = status
	c := *o
	return &c, nil
}

type mockCache struct {
	m           sync.RWMutex
	gen         int64
	products    map[string][]domain.Product
	categories  map[int64][]string
	err         error
	invalidated int
}

func newMockCache() *mockCache {
	return &mockCache{products: map[string][]domain.Product{}, categories: map[int64][]string{}}
}

func (m *mockCache) Generation(context.Context) (int64, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.gen, m.err
}

func (m *mockCache) GetProducts(_ context.Context, gen int64, category string) ([]domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[fmt.Sprintf("%d:%s", gen, category)]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return p, nil
}

func (m *mockCache) SetProducts(_ context.Context, gen int64, category string, products []domain.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.products[fmt.Sprintf("%d:%s", gen, category)] = products
	return nil
}

func (m *mockCache) GetCategories(_ context.Context, gen int64) ([]string, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.categories[gen]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return c, nil
}

func (m *mockCache) SetCategories(_ context.Context, gen int64, categories []string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.categories[gen] = categories
	return nil
}

// InvalidateAll only advances the generation; old entries stay, like keys awaiting TTL.
func (m *mockCache) InvalidateAll(context.Context) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.invalidated++
	m.gen++
	return m.err
}

type mockFeed struct {
	items []feed.Item
	err   error
}

func (m *mockFeed) Fetch(context.Context) ([]feed.Item, error) {
	return m.items, m.err
}

type mockPublisher struct {
	m      sync.Mutex
	events []events.OrderEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, ev events.OrderEvent) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) types() []string {
	m.m.Lock()
	defer m.m.Unlock()
	out := make([]string, len(m.events))
	for i, ev := range m.events {
		out[i] = ev.Type
	}
	return out
}
