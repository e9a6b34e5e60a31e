package token

import (
	"context"
	"time"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/ports"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/cache"
)

var _ ports.TokenRevoker = (*CacheRevoker)(nil)

// CacheRevoker keeps revoked token ids in the shared cache until the token
// would have expired anyway.
type CacheRevoker struct {
	cache cache.Cache
	now   func() time.Time
}

func NewCacheRevoker(c cache.Cache) *CacheRevoker {
	return &CacheRevoker{cache: c, now: time.Now}
}

func (r *CacheRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.cache.Set(ctx, r.cache.GenerateKey("revoked", tokenID), "1", ttl)
}

func (r *CacheRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	val, err := r.cache.Get(ctx, r.cache.GenerateKey("revoked", tokenID))
	if err != nil {
		return false, err
	}
	return val != "", nil
}
