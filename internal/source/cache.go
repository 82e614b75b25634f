package source

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/member-platform/member-qa/internal/model"
)

// Cache holds the last fetched record list in memory. There is no TTL:
// the list is populated on first access or explicit refresh and replaced
// wholesale. A failed fetch leaves the slot empty so the next access
// retries.
type Cache struct {
	client *Client
	group  singleflight.Group

	mu      sync.RWMutex
	records []model.Record
	loaded  bool
}

// NewCache creates an empty cache backed by the given client.
func NewCache(client *Client) *Cache {
	return &Cache{client: client}
}

// Get returns the cached records, fetching them on first use. Concurrent
// cold-start callers share a single upstream fetch.
func (c *Cache) Get(ctx context.Context) ([]model.Record, error) {
	c.mu.RLock()
	if c.loaded {
		records := c.records
		c.mu.RUnlock()
		return records, nil
	}
	c.mu.RUnlock()

	return c.fetch(ctx)
}

// Refresh fetches unconditionally and replaces the cached list.
func (c *Cache) Refresh(ctx context.Context) ([]model.Record, error) {
	return c.fetch(ctx)
}

func (c *Cache) fetch(ctx context.Context) ([]model.Record, error) {
	v, err, _ := c.group.Do("messages", func() (any, error) {
		records, err := c.client.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.records = records
		c.loaded = true
		c.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Record), nil
}
