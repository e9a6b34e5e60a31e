package cache

import (
	"context"
	"time"
)

// Cache is a string key/value store with per-entry TTL. Get returns "" and a
// nil error on a miss.
type Cache interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GenerateKey(operation, key string) string
}
