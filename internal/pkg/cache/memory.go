package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// sweepInterval bounds how often Set walks the map for expired entries that
// nobody read back.
const sweepInterval = time.Minute

type memoryItem struct {
	value     string
	expiresAt time.Time
}

type memoryCache struct {
	mu          sync.RWMutex
	items       map[string]memoryItem
	serviceName string
	now         func() time.Time
	lastSweep   time.Time
}

// NewMemoryCache is the process-local Cache used when no Redis is configured.
func NewMemoryCache(serviceName string) Cache {
	return &memoryCache{
		items:       make(map[string]memoryItem),
		serviceName: serviceName,
		now:         time.Now,
	}
}

func (c *memoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if now.Sub(c.lastSweep) >= sweepInterval {
		c.sweep(now)
	}
	c.items[key] = memoryItem{value: value, expiresAt: now.Add(ttl)}
	return nil
}

// sweep drops every expired entry. Callers hold c.mu.
func (c *memoryCache) sweep(now time.Time) {
	for k, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, k)
		}
	}
	c.lastSweep = now
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return "", nil
	}
	now := c.now()
	if now.After(item.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.items[key]; ok && now.After(cur.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return "", nil
	}
	return item.value, nil
}

func (c *memoryCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", c.serviceName, operation, key)
}
