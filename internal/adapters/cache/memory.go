// Package cache holds a TTL'd in-memory status cache. Reply threads often
// point many statuses at the same origin, so caching single-status lookups
// saves repeated round trips to the source.
package cache

import (
	"context"
	"sync"
	"time"

	"conversationalist/internal/domain"
	"conversationalist/internal/usecases"
)

// MemoryCache is an in-memory status cache with TTL support.
type MemoryCache struct {
	statuses sync.Map
	ttl      time.Duration
}

type cacheEntry struct {
	status    domain.Status
	expiresAt time.Time
}

// NewMemoryCache creates a cache whose entries live for ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	c := &MemoryCache{ttl: ttl}
	go c.cleanup()
	return c
}

// Get retrieves a cached status if present and not expired.
func (c *MemoryCache) Get(id string) (domain.Status, bool) {
	value, ok := c.statuses.Load(id)
	if !ok {
		return domain.Status{}, false
	}
	entry := value.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.statuses.Delete(id)
		return domain.Status{}, false
	}
	return entry.status, true
}

// Set stores a status under its identifier.
func (c *MemoryCache) Set(id string, status domain.Status) {
	c.statuses.Store(id, &cacheEntry{status: status, expiresAt: time.Now().Add(c.ttl)})
}

func (c *MemoryCache) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	for range ticker.C {
		now := time.Now()
		c.statuses.Range(func(key, value any) bool {
			if now.After(value.(*cacheEntry).expiresAt) {
				c.statuses.Delete(key)
			}
			return true
		})
	}
}

// CachingSource wraps a status source with lookup caching. Batches pass
// through untouched; their statuses seed the cache for later lookups.
type CachingSource struct {
	src   usecases.StatusSource
	cache *MemoryCache
}

// WrapSource decorates src with a lookup cache.
func WrapSource(src usecases.StatusSource, ttl time.Duration) *CachingSource {
	return &CachingSource{src: src, cache: NewMemoryCache(ttl)}
}

// Batch delegates to the wrapped source and seeds the cache.
func (s *CachingSource) Batch(ctx context.Context, account, beforeID string) ([]domain.Status, error) {
	batch, err := s.src.Batch(ctx, account, beforeID)
	if err != nil {
		return nil, err
	}
	for _, status := range batch {
		s.cache.Set(status.ID, status)
	}
	return batch, nil
}

// Lookup checks the cache before asking the wrapped source.
func (s *CachingSource) Lookup(ctx context.Context, id string) (domain.Status, error) {
	if status, ok := s.cache.Get(id); ok {
		return status, nil
	}
	status, err := s.src.Lookup(ctx, id)
	if err != nil {
		return domain.Status{}, err
	}
	s.cache.Set(id, status)
	return status, nil
}
