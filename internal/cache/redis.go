package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "catalog:"
	generationKey = keyPrefix + "gen"
)

func NewRedisCache(client *redis.Client, baseTTL time.Duration) *RedisCache {
	if baseTTL <= 0 {
		baseTTL = 10 * time.Minute
	}
	return &RedisCache{
		client:  client,
		baseTTL: baseTTL,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

// Generation returns the current catalog generation; an unset counter is generation 0.
func (r *RedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation failed: %w", err)
	}
	return gen, nil
}

func (r *RedisCache) GetProducts(ctx context.Context, gen int64, category string) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.get(ctx, productsKey(gen, category), &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *RedisCache) SetProducts(ctx context.Context, gen int64, category string, products []domain.Product) error {
	return r.set(ctx, productsKey(gen, category), products)
}

func (r *RedisCache) GetCategories(ctx context.Context, gen int64) ([]string, error) {
	var categories []string
	if err := r.get(ctx, categoriesKey(gen), &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *RedisCache) SetCategories(ctx context.Context, gen int64, categories []string) error {
	return r.set(ctx, categoriesKey(gen), categories)
}

// InvalidateAll advances the generation, then drops the entries of earlier generations.
// The generation bump alone is enough for correctness; the delete only frees memory.
func (r *RedisCache) InvalidateAll(ctx context.Context) error {
	if err := r.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("redis incr generation failed: %w", err)
	}

	iter := r.client.Scan(ctx, 0, keyPrefix+"v*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisCache) get(ctx context.Context, key string, dst any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal %s failed: %w", key, err)
	}
	return nil
}

func (r *RedisCache) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// ttl spreads expiry over [base, base*1.2] so entries do not expire together.
func (r *RedisCache) ttl() time.Duration {
	jitter := time.Duration(rand.Int63n(int64(r.baseTTL/5) + 1))
	return r.baseTTL + jitter
}

func productsKey(gen int64, category string) string {
	if category == "" {
		category = domain.AllCategories
	}
	return fmt.Sprintf("%sv%d:products:%s", keyPrefix, gen, category)
}

func categoriesKey(gen int64) string {
	return fmt.Sprintf("%sv%d:categories", keyPrefix, gen)
}
