package cache

import (
	"context"
	"errors"

	"github.com/fjod/storefront/internal/domain"
)

// CatalogCache holds read-side catalog views. Category "" and "All" share one entry.
//
// Entries are stored per generation. InvalidateAll advances the generation, so a fill that read
// the database before an invalidation lands under the old generation and is never served.
// Callers read Generation before loading from the database and pass it to Set.
type CatalogCache interface {
	Generation(ctx context.Context) (int64, error)
	GetProducts(ctx context.Context, gen int64, category string) ([]domain.Product, error)
	SetProducts(ctx context.Context, gen int64, category string, products []domain.Product) error
	GetCategories(ctx context.Context, gen int64) ([]string, error)
	SetCategories(ctx context.Context, gen int64, categories []string) error
	InvalidateAll(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")

// Nop never stores anything; every read is a miss.
type Nop struct{}

func (Nop) Generation(context.Context) (int64, error) { return 0, nil }

func (Nop) GetProducts(context.Context, int64, string) ([]domain.Product, error) {
	return nil, ErrCacheMiss
}

func (Nop) SetProducts(context.Context, int64, string, []domain.Product) error { return nil }

func (Nop) GetCategories(context.Context, int64) ([]string, error) { return nil, ErrCacheMiss }

func (Nop) SetCategories(context.Context, int64, []string) error { return nil }

func (Nop) InvalidateAll(context.Context) error { return nil }
