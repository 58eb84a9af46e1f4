package fxrates

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long fetched rates are reused.
const DefaultTTL = time.Hour

type cacheEntry struct {
	rates     RateTable
	fetchedAt time.Time
}

// CachedProvider memoizes another Provider per base currency and requested
// currency set. Entries expire only by age. Concurrent misses for the same key
// share one upstream fetch; failures are not cached.
type CachedProvider struct {
	next    Provider
	ttl     time.Duration
	now     func() time.Time
	logger  logging.Logger
	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// CacheOption configures a CachedProvider.
type CacheOption func(*CachedProvider)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *CachedProvider) {
		c.now = now
	}
}

// NewCachedProvider wraps next. A non-positive ttl selects DefaultTTL.
func NewCachedProvider(next Provider, ttl time.Duration, logger logging.Logger, opts ...CacheOption) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	c := &CachedProvider{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
		entries: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rates implements Provider.
func (c *CachedProvider) Rates(ctx context.Context, base string, currencies []string) (RateTable, error) {
	base = NormalizeCurrency(base)
	wanted := normalizeCurrencies(currencies)
	key := cacheKey(base, wanted)

	if rates, ok := c.lookup(key); ok {
		c.logger.Debug("Exchange rates served from cache",
			logging.Field{Key: logging.FieldBase, Value: base},
			logging.Field{Key: logging.FieldCacheHit, Value: true})
		return rates, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if rates, ok := c.lookup(key); ok {
			return rates, nil
		}
		rates, err := c.next.Rates(ctx, base, wanted)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = cacheEntry{rates: rates.Clone(), fetchedAt: c.now()}
		c.mu.Unlock()
		c.logger.Debug("Exchange rates cached",
			logging.Field{Key: logging.FieldBase, Value: base},
			logging.Field{Key: logging.FieldCacheHit, Value: false})
		return rates, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(RateTable).Clone(), nil
}

// Len returns the number of cached entries, expired ones included.
func (c *CachedProvider) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *CachedProvider) lookup(key string) (RateTable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.fetchedAt) > c.ttl {
		return nil, false
	}
	return entry.rates.Clone(), true
}

func cacheKey(base string, currencies []string) string {
	return base + ":" + strings.Join(currencies, ",")
}
