package queries

import (
	"sync"

	"autoshop/internal/domain/identity"
	"autoshop/internal/pkg/config"
)

// PendingCache holds each user's pending list until the next write.
// Any invalidation bumps the epoch, so a reader that raced with a write
// never stores what it read before the write landed.
type PendingCache struct {
	mu         sync.Mutex
	entries    map[string][]*RecommendationView
	epoch      uint64
	maxEntries int
}

func NewPendingCache(cfg config.AutoShopConfig) *PendingCache {
	return &PendingCache{
		entries:    make(map[string][]*RecommendationView),
		maxEntries: cfg.PendingCacheMaxEntries,
	}
}

func (c *PendingCache) Get(key identity.UserKey) ([]*RecommendationView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	views, ok := c.entries[key.String()]
	if !ok {
		return nil, false
	}
	return cloneViews(views), true
}

func (c *PendingCache) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// Put stores views read at epoch. It is dropped when any write landed in
// the meantime.
func (c *PendingCache) Put(key identity.UserKey, epoch uint64, views []*RecommendationView) {
	if c.maxEntries <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch {
		return
	}
	k := key.String()
	if _, ok := c.entries[k]; !ok && len(c.entries) >= c.maxEntries {
		for victim := range c.entries {
			delete(c.entries, victim)
			break
		}
	}
	c.entries[k] = cloneViews(views)
}

func (c *PendingCache) Invalidate(key identity.UserKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key.String())
	c.epoch++
}

func (c *PendingCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func cloneViews(views []*RecommendationView) []*RecommendationView {
	out := make([]*RecommendationView, len(views))
	for i, v := range views {
		c := *v
		out[i] = &c
	}
	return out
}
