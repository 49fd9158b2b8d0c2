package redis

import (
	"context"
	"errors"
	"time"

	"github.com/azkar-hub/azkar-hub/internal/domain/azkar"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
	"github.com/azkar-hub/azkar-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG CACHE
// ══════════════════════════════════════════════════════════════════════════════

// Store is the subset of Cache the catalog cache needs.
type Store interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CachedCatalog is a read-through cache for azkar.Repository.
// Category listings and single items are cached; search goes straight
// to the inner repository. Redis failures degrade to uncached reads.
type CachedCatalog struct {
	inner azkar.Repository
	store Store
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedCatalog wraps inner with a cache. A non-positive ttl uses TTLCatalog.
func NewCachedCatalog(inner azkar.Repository, store Store, ttl time.Duration, log *logger.Logger) *CachedCatalog {
	if ttl <= 0 {
		ttl = TTLCatalog
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachedCatalog{
		inner: inner,
		store: store,
		ttl:   ttl,
		log:   log.With(logger.Component("catalog_cache")),
	}
}

// Wrap returns a copy of the cache in front of another repository, sharing
// the same store. Used to put the cache over transaction-bound readers.
func (c *CachedCatalog) Wrap(inner azkar.Repository) azkar.Repository {
	cp := *c
	cp.inner = inner
	return &cp
}

func categoryKey(category azkar.Category) string {
	return PrefixAzkar + "category:" + string(category)
}

func zikrKey(id shared.ZikrID) string {
	return PrefixAzkar + "zikr:" + string(id)
}

// GetByID returns a zikr, from cache when possible.
func (c *CachedCatalog) GetByID(ctx context.Context, id shared.ZikrID) (*azkar.Zikr, error) {
	key := zikrKey(id)

	var cached cachedZikr
	if c.load(ctx, key, &cached) {
		return cached.toDomain(), nil
	}

	z, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, key, fromDomain(z), c.ttl); err != nil {
		c.log.Warn("catalog cache write failed", logger.ZikrID(string(id)), logger.Err(err))
	}
	return z, nil
}

// ListByCategory returns a category's azkar, from cache when possible.
func (c *CachedCatalog) ListByCategory(ctx context.Context, category azkar.Category) ([]*azkar.Zikr, error) {
	if category == "" {
		return []*azkar.Zikr{}, nil
	}
	key := categoryKey(category)

	var cached []cachedZikr
	if c.load(ctx, key, &cached) {
		out := make([]*azkar.Zikr, len(cached))
		for i := range cached {
			out[i] = cached[i].toDomain()
		}
		return out, nil
	}

	items, err := c.inner.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	payload := make([]cachedZikr, len(items))
	for i, z := range items {
		payload[i] = fromDomain(z)
	}
	if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
		c.log.Warn("catalog cache write failed", logger.Category(string(category)), logger.Err(err))
	}
	return items, nil
}

// Search is not cached.
func (c *CachedCatalog) Search(ctx context.Context, q azkar.SearchQuery) ([]*azkar.Zikr, error) {
	return c.inner.Search(ctx, q)
}

// Invalidate drops every cached catalog entry. Call after importing.
func (c *CachedCatalog) Invalidate(ctx context.Context) error {
	return c.store.DeleteByPattern(ctx, PrefixAzkar+"*")
}

// load reports a hit. Anything other than a miss is logged and treated as one.
func (c *CachedCatalog) load(ctx context.Context, key string, dest any) bool {
	err := c.store.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.log.Warn("catalog cache read failed", logger.String("key", key), logger.Err(err))
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Serialization
// ─────────────────────────────────────────────────────────────────────────────

type cachedZikr struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Translation string    `json:"translation,omitempty"`
	Meaning     string    `json:"meaning,omitempty"`
	Category    string    `json:"category"`
	Repetitions int       `json:"repetitions"`
	Source      string    `json:"source,omitempty"`
	Benefits    []string  `json:"benefits,omitempty"`
	AudioURL    string    `json:"audio_url,omitempty"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
}

func fromDomain(z *azkar.Zikr) cachedZikr {
	return cachedZikr{
		ID:          string(z.ID),
		Text:        z.Text,
		Translation: z.Translation,
		Meaning:     z.Meaning,
		Category:    string(z.Category),
		Repetitions: z.Repetitions,
		Source:      z.Source,
		Benefits:    z.Benefits,
		AudioURL:    z.AudioURL,
		Order:       z.Order,
		CreatedAt:   z.CreatedAt,
	}
}

func (c cachedZikr) toDomain() *azkar.Zikr {
	return &azkar.Zikr{
		ID:          shared.ZikrID(c.ID),
		Text:        c.Text,
		Translation: c.Translation,
		Meaning:     c.Meaning,
		Category:    azkar.Category(c.Category),
		Repetitions: c.Repetitions,
		Source:      c.Source,
		Benefits:    c.Benefits,
		AudioURL:    c.AudioURL,
		Order:       c.Order,
		CreatedAt:   c.CreatedAt,
	}
}

var _ azkar.Repository = (*CachedCatalog)(nil)
