package coupon

import (
	"context"
	"time"

	"pawcart/internal/model"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedFinder is a read-through Finder with a short TTL. Misses are not
// cached so a newly created coupon is visible on the next lookup.
type CachedFinder struct {
	next  Finder
	cache *expirable.LRU[string, model.Coupon]
}

// NewCachedFinder wraps next with an LRU of the given size and TTL. A ttl of
// zero or less disables caching and every lookup goes to next.
func NewCachedFinder(next Finder, size int, ttl time.Duration) *CachedFinder {
	f := &CachedFinder{next: next}
	if ttl <= 0 {
		return f
	}
	if size <= 0 {
		size = 1024
	}
	f.cache = expirable.NewLRU[string, model.Coupon](size, nil, ttl)
	return f
}

// FindByCode implements Finder.
func (f *CachedFinder) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	if f.cache == nil {
		return f.next.FindByCode(ctx, code)
	}
	if c, ok := f.cache.Get(code); ok {
		return &c, nil
	}

	c, err := f.next.FindByCode(ctx, code)
	if err != nil || c == nil {
		return c, err
	}

	f.cache.Add(code, *c)
	return c, nil
}

// Invalidate drops code from the cache.
func (f *CachedFinder) Invalidate(code string) {
	if f.cache == nil {
		return
	}
	f.cache.Remove(code)
}
