// Package cached wraps the product repository with a read-through cache.
// Cache failures are absorbed: a backend outage degrades lookups to the
// database instead of failing the request.
package cached

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/nexocart/catalog-service/internal/cache"
	"github.com/nexocart/catalog-service/internal/domain"
	"github.com/nexocart/catalog-service/internal/repository"
	apperrors "github.com/nexocart/catalog-service/pkg/errors"
)

const (
	idKeyPrefix   = "product:id:"
	nameKeyPrefix = "product:name:"

	// nullSentinel marks a confirmed absence so repeated lookups of a
	// missing product do not hit the database for the TTL window.
	nullSentinel = "null"
)

// ProductRepository is a read-through caching decorator over another
// repository.ProductRepository. Single-product reads consult the cache
// first; listings always go to the database because filter combinations
// do not cache usefully.
type ProductRepository struct {
	inner repository.ProductRepository
	cache cache.Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewProductRepository wraps inner with the given cache backend.
func NewProductRepository(inner repository.ProductRepository, c cache.Cache, ttl time.Duration, log *slog.Logger) *ProductRepository {
	return &ProductRepository{
		inner: inner,
		cache: c,
		ttl:   ttl,
		log:   log,
	}
}

// GetByID returns the product from the cache when present, loading and
// caching it on a miss. A cached null sentinel short-circuits to not found.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.getThrough(ctx, idKeyPrefix+id, func() (*domain.Product, error) {
		return r.inner.GetByID(ctx, id)
	})
}

// GetByName is the name-keyed variant of GetByID.
func (r *ProductRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	return r.getThrough(ctx, nameKeyPrefix+name, func() (*domain.Product, error) {
		return r.inner.GetByName(ctx, name)
	})
}

// List always queries the database.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	return r.inner.List(ctx, filter)
}

// Create inserts the product and clears any null sentinels left behind by
// earlier lookups of the same id or name.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	if err := r.inner.Create(ctx, p); err != nil {
		return err
	}
	r.evict(ctx, p.ID, p.Name)
	return nil
}

// Update writes through to the database and evicts the product's cache
// entries. An entry cached under a previous name is left to expire with
// its TTL.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	if err := r.inner.Update(ctx, p); err != nil {
		return err
	}
	r.evict(ctx, p.ID, p.Name)
	return nil
}

// UpdateRating persists the derived rating and evicts the id entry. The
// name entry is resolved from the id entry's cached value when available.
func (r *ProductRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	name := r.cachedName(ctx, id)
	if err := r.inner.UpdateRating(ctx, id, rating); err != nil {
		return err
	}
	r.evict(ctx, id, name)
	return nil
}

// Delete removes the product and evicts its cache entries.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	name := r.cachedName(ctx, id)
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id, name)
	return nil
}

func (r *ProductRepository) getThrough(ctx context.Context, key string, load func() (*domain.Product, error)) (*domain.Product, error) {
	data, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		if string(data) == nullSentinel {
			return nil, apperrors.ErrNotFound
		}
		var p domain.Product
		if unmarshalErr := json.Unmarshal(data, &p); unmarshalErr == nil {
			return &p, nil
		}
		// Corrupt entry: drop it and fall through to the database.
		r.evictKeys(ctx, key)
	case !errors.Is(err, cache.ErrMiss):
		r.log.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}

	p, err := load()
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			r.set(ctx, key, []byte(nullSentinel))
		}
		return nil, err
	}

	if data, marshalErr := json.Marshal(p); marshalErr == nil {
		r.set(ctx, key, data)
	}

	return p, nil
}

// cachedName recovers the product name from the id cache entry so the
// name-keyed entry can be evicted without a database read. Returns empty
// when nothing usable is cached.
func (r *ProductRepository) cachedName(ctx context.Context, id string) string {
	data, err := r.cache.Get(ctx, idKeyPrefix+id)
	if err != nil || string(data) == nullSentinel {
		return ""
	}
	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return ""
	}
	return p.Name
}

func (r *ProductRepository) evict(ctx context.Context, id, name string) {
	keys := []string{idKeyPrefix + id}
	if name != "" {
		keys = append(keys, nameKeyPrefix+name)
	}
	r.evictKeys(ctx, keys...)
}

func (r *ProductRepository) evictKeys(ctx context.Context, keys ...string) {
	if err := r.cache.Evict(ctx, keys...); err != nil {
		r.log.WarnContext(ctx, "cache evict failed", "keys", keys, "error", err)
	}
}

func (r *ProductRepository) set(ctx context.Context, key string, data []byte) {
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		r.log.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
}
