package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dukerupert/vitrine/internal/cache"
	"github.com/dukerupert/vitrine/internal/domain"
)

// CachedCatalog serves product payloads from a cache, falling through to
// the wrapped catalog on a miss. Lookups that fail are never cached.
type CachedCatalog struct {
	next   Catalog
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger

	// listSizes records every listing size cached so far, for Invalidate.
	listSizes sync.Map

	// generation is bumped by Invalidate. A fetch started under an older
	// generation is not written back.
	generation atomic.Uint64
}

var _ Catalog = (*CachedCatalog)(nil)

// NewCachedCatalog wraps next with c.
func NewCachedCatalog(next Catalog, c cache.Cache, ttl time.Duration, logger *slog.Logger) *CachedCatalog {
	return &CachedCatalog{next: next, cache: c, ttl: ttl, logger: logger}
}

func productKey(handle string) string { return "product:" + handle }

func listKey(first int) string { return fmt.Sprintf("products:%d", first) }

// Invalidate evicts the cached payload for handle together with every cached
// listing, since any of them may contain the product.
func (cc *CachedCatalog) Invalidate(ctx context.Context, handle string) error {
	cc.generation.Add(1)

	var errs []error
	if err := cc.cache.Delete(ctx, productKey(handle)); err != nil {
		errs = append(errs, err)
	}
	cc.listSizes.Range(func(k, _ any) bool {
		if err := cc.cache.Delete(ctx, listKey(k.(int))); err != nil {
			errs = append(errs, err)
		}
		return true
	})
	return errors.Join(errs...)
}

func (cc *CachedCatalog) GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	key := productKey(handle)

	var p domain.Product
	if cc.load(ctx, key, &p) {
		return &p, nil
	}

	gen := cc.generation.Load()
	fresh, err := cc.next.GetProductByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	cc.store(ctx, key, fresh, gen)
	return fresh, nil
}

func (cc *CachedCatalog) ListProducts(ctx context.Context, first int) ([]domain.Product, error) {
	key := listKey(first)
	cc.listSizes.Store(first, struct{}{})

	var products []domain.Product
	if cc.load(ctx, key, &products) {
		return products, nil
	}

	gen := cc.generation.Load()
	fresh, err := cc.next.ListProducts(ctx, first)
	if err != nil {
		return nil, err
	}
	cc.store(ctx, key, fresh, gen)
	return fresh, nil
}

// load reports whether key was found and decoded into dst.
// Cache failures degrade to a miss.
func (cc *CachedCatalog) load(ctx context.Context, key string, dst any) bool {
	b, err := cc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			cc.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		cc.logger.Warn("cached payload undecodable", "key", key, "error", err)
		return false
	}
	return true
}

// store writes v unless an invalidation has happened since generation gen
// was read.
func (cc *CachedCatalog) store(ctx context.Context, key string, v any, gen uint64) {
	if cc.generation.Load() != gen {
		cc.logger.Debug("skipping cache write after invalidation", "key", key)
		return
	}

	b, err := json.Marshal(v)
	if err != nil {
		cc.logger.Warn("failed to encode payload for cache", "key", key, "error", err)
		return
	}
	if err := cc.cache.Set(ctx, key, b, cc.ttl); err != nil {
		cc.logger.Warn("cache write failed", "key", key, "error", err)
		return
	}

	// An invalidation that landed during the write wins.
	if cc.generation.Load() != gen {
		_ = cc.cache.Delete(ctx, key)
	}
}
