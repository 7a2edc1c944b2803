package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/storefront/internal/cache"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/feed"
	"github.com/fjod/storefront/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const catalogLoadTimeout = 10 * time.Second

type FeedSource interface {
	Fetch(ctx context.Context) ([]feed.Item, error)
}

type CatalogService struct {
	products repository.ProductRepository
	cache    cache.CatalogCache
	feed     FeedSource
	sfg      singleflight.Group // collapses concurrent cache misses
	log      zerolog.Logger
}

func NewCatalogService(products repository.ProductRepository, c cache.CatalogCache, f FeedSource, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		products: products,
		cache:    c,
		feed:     f,
		log:      log.With().Str("component", "catalog").Logger(),
	}
}

func normalizeCategory(category string) string {
	if category == "" {
		return domain.AllCategories
	}
	return category
}

func (s *CatalogService) List(ctx context.Context, category string) ([]domain.Product, error) {
	category = normalizeCategory(category)
	v, err, _ := s.sfg.Do("products:"+category, func() (interface{}, error) {
		ctx, cancel := loadContext(ctx)
		defer cancel()

		gen, cached := s.generation(ctx)
		if cached {
			products, err := s.cache.GetProducts(ctx, gen, category)
			if err == nil {
				return products, nil
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				s.log.Warn().Err(err).Msg("cache get failed")
			}
		}

		products, err := s.products.List(ctx, category)
		if err != nil {
			return nil, err
		}
		if cached {
			if err := s.cache.SetProducts(ctx, gen, category, products); err != nil {
				s.log.Warn().Err(err).Msg("cache set failed")
			}
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	v, err, _ := s.sfg.Do("categories", func() (interface{}, error) {
		ctx, cancel := loadContext(ctx)
		defer cancel()

		gen, cached := s.generation(ctx)
		if cached {
			categories, err := s.cache.GetCategories(ctx, gen)
			if err == nil {
				return categories, nil
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				s.log.Warn().Err(err).Msg("cache get failed")
			}
		}

		categories, err := s.products.Categories(ctx)
		if err != nil {
			return nil, err
		}
		if cached {
			if err := s.cache.SetCategories(ctx, gen, categories); err != nil {
				s.log.Warn().Err(err).Msg("cache set failed")
			}
		}
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// loadContext detaches a shared load from the caller that started it, so one client going away
// does not fail every request waiting on the same key.
func loadContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), catalogLoadTimeout)
}

// generation must be read before the database so a concurrent invalidation retires the fill.
// When it cannot be read the cache is bypassed for this load.
func (s *CatalogService) generation(ctx context.Context) (int64, bool) {
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("cache generation read failed")
		return 0, false
	}
	return gen, true
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, repository.ErrProductNotFound, msgProductNotFound)
	}
	return p, nil
}

func (s *CatalogService) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	p, err := domain.NewProduct(in)
	if err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, &p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &p, nil
}

// Update applies the supplied fields. The merged product must pass the same checks as create.
func (s *CatalogService) Update(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := *current
	in.ApplyTo(&merged)
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.products.Update(ctx, id, in.SetDocument())
	if err != nil {
		return nil, translate(err, repository.ErrProductNotFound, msgProductNotFound)
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return translate(err, repository.ErrProductNotFound, msgProductNotFound)
	}
	s.invalidate(ctx)
	return nil
}

// Import loads one feed batch. Titles already in the catalog are skipped; per-item failures
// are collected and do not stop the batch. A feed failure fails the whole import.
func (s *CatalogService) Import(ctx context.Context) (domain.ImportResult, error) {
	log := s.log.With().Str("import_id", uuid.NewString()).Logger()

	items, err := s.feed.Fetch(ctx)
	if err != nil {
		return domain.ImportResult{}, fmt.Errorf("fetch product feed: %w", err)
	}
	if len(items) == 0 {
		return domain.ImportResult{}, domain.Validation("No products found to import.")
	}

	var result domain.ImportResult
	for _, item := range items {
		title := item.Name()

		exists, err := s.products.ExistsByTitle(ctx, title)
		if err != nil {
			result.Errors = append(result.Errors, domain.ImportError{Title: title, Error: err.Error()})
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		p, err := item.Product()
		if err == nil {
			err = s.products.Create(ctx, &p)
		}
		if err != nil {
			log.Warn().Err(err).Str("title", title).Msg("import item failed")
			result.Errors = append(result.Errors, domain.ImportError{Title: title, Error: err.Error()})
			continue
		}
		result.Imported++
	}

	if result.Imported > 0 {
		s.invalidate(ctx)
	}
	log.Info().Int("imported", result.Imported).Int("skipped", result.Skipped).
		Int("failed", len(result.Errors)).Msg("import completed")
	return result, nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn().Err(err).Msg("cache invalidate failed")
	}
}
