// Package cached decorates a ContentStore with a read-through cache for
// catalog and blog reads.
package cached

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/ports"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/cache"
)

const (
	opProducts = "products"
	opProduct  = "product"
	opPosts    = "blog_posts"
	opPost     = "blog_post"
)

// ContentStore caches everything except stock batches, which always go to
// the backend so checkout sees current quantities.
type ContentStore struct {
	next  ports.ContentStore
	cache cache.Cache
	ttl   time.Duration
	group singleflight.Group
}

var _ ports.ContentStore = (*ContentStore)(nil)

func NewContentStore(next ports.ContentStore, c cache.Cache, ttl time.Duration) *ContentStore {
	return &ContentStore{next: next, cache: c, ttl: ttl}
}

func (s *ContentStore) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return readThrough(ctx, s, opProducts, "all", s.next.ListProducts)
}

func (s *ContentStore) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return readThrough(ctx, s, opProduct, id, func(ctx context.Context) (*entity.Product, error) {
		return s.next.GetProduct(ctx, id)
	})
}

func (s *ContentStore) StockRecords(ctx context.Context, ids []string) ([]entity.StockRecord, error) {
	return s.next.StockRecords(ctx, ids)
}

func (s *ContentStore) ListBlogPosts(ctx context.Context) ([]entity.BlogPost, error) {
	return readThrough(ctx, s, opPosts, "all", s.next.ListBlogPosts)
}

func (s *ContentStore) GetBlogPost(ctx context.Context, slug string) (*entity.BlogPost, error) {
	return readThrough(ctx, s, opPost, slug, func(ctx context.Context) (*entity.BlogPost, error) {
		return s.next.GetBlogPost(ctx, slug)
	})
}

// readThrough serves key from the cache, or loads it once no matter how many
// callers miss at the same time. Cache failures degrade to a direct load.
func readThrough[T any](ctx context.Context, s *ContentStore, op, id string, load func(context.Context) (T, error)) (T, error) {
	key := s.cache.GenerateKey(op, id)

	if raw, err := s.cache.Get(ctx, key); err != nil {
		slog.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	} else if raw != "" {
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v, nil
		}
		slog.WarnContext(ctx, "discarding undecodable cache entry", "key", key)
	}

	res, err, _ := s.group.Do(key, func() (any, error) {
		// Shared by every waiter, so one caller giving up must not cancel it.
		loadCtx := context.WithoutCancel(ctx)
		v, err := load(loadCtx)
		if err != nil {
			return v, err
		}
		if raw, err := json.Marshal(v); err == nil {
			if err := s.cache.Set(loadCtx, key, string(raw), s.ttl); err != nil {
				slog.WarnContext(ctx, "cache write failed", "key", key, "error", err)
			}
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}
