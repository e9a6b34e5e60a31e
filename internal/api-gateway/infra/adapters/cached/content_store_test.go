package cached

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/ports"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/infra/adapters/memory"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/cache"
)

// countingStore counts backend calls and can hold them open.
type countingStore struct {
	ports.ContentStore
	lists  atomic.Int32
	stock  atomic.Int32
	gets   atomic.Int32
	gate   chan struct{}
	getErr error
}

func (c *countingStore) ListProducts(ctx context.Context) ([]entity.Product, error) {
	c.lists.Add(1)
	if c.gate != nil {
		<-c.gate
	}
	return c.ContentStore.ListProducts(ctx)
}

func (c *countingStore) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	c.gets.Add(1)
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.ContentStore.GetProduct(ctx, id)
}

func (c *countingStore) StockRecords(ctx context.Context, ids []string) ([]entity.StockRecord, error) {
	c.stock.Add(1)
	return c.ContentStore.StockRecords(ctx, ids)
}

func TestListIsServedFromCache(t *testing.T) {
	backend := &countingStore{ContentStore: memory.Seeded()}
	store := NewContentStore(backend, cache.NewMemoryCache("test"), time.Minute)
	ctx := context.Background()

	first, err := store.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	second, err := store.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if backend.lists.Load() != 1 {
		t.Errorf("expected one backend call, got %d", backend.lists.Load())
	}
	if len(first) != len(second) || first[0] != second[0] {
		t.Errorf("cached list differs: %+v vs %+v", first, second)
	}
}

func TestConcurrentMissesCollapse(t *testing.T) {
	backend := &countingStore{ContentStore: memory.Seeded(), gate: make(chan struct{})}
	store := NewContentStore(backend, cache.NewMemoryCache("test"), time.Minute)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.ListProducts(context.Background()); err != nil {
				t.Errorf("list: %v", err)
			}
		}()
	}

	// Give the callers time to pile up behind the first load.
	time.Sleep(50 * time.Millisecond)
	close(backend.gate)
	wg.Wait()

	if n := backend.lists.Load(); n != 1 {
		t.Errorf("expected a single backend call, got %d", n)
	}
}

func TestStockIsNeverCached(t *testing.T) {
	seeded := memory.Seeded()
	backend := &countingStore{ContentStore: seeded}
	store := NewContentStore(backend, cache.NewMemoryCache("test"), time.Minute)
	ctx := context.Background()

	if _, err := store.StockRecords(ctx, []string{"1"}); err != nil {
		t.Fatalf("stock: %v", err)
	}
	seeded.SetStock("1", 2)
	records, err := store.StockRecords(ctx, []string{"1"})
	if err != nil {
		t.Fatalf("stock: %v", err)
	}

	if backend.stock.Load() != 2 {
		t.Errorf("expected every stock batch to reach the backend, got %d calls", backend.stock.Load())
	}
	if records[0].AvailableStock != 2 {
		t.Errorf("expected fresh stock 2, got %d", records[0].AvailableStock)
	}
}

func TestErrorsAreNotCached(t *testing.T) {
	backend := &countingStore{ContentStore: memory.Seeded(), getErr: ports.ErrNotFound}
	store := NewContentStore(backend, cache.NewMemoryCache("test"), time.Minute)
	ctx := context.Background()

	for range 2 {
		if _, err := store.GetProduct(ctx, "1"); !errors.Is(err, ports.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	}
	if backend.gets.Load() != 2 {
		t.Errorf("expected failures to reach the backend each time, got %d calls", backend.gets.Load())
	}
}

func TestCacheOutageFallsBackToBackend(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := cache.NewRedisCache(client, "test")
	key := c.GenerateKey(opPost, "welcome")
	mock.ExpectGet(key).SetErr(errors.New("connection refused"))
	mock.Regexp().ExpectSet(key, `.*`, time.Minute).SetErr(errors.New("connection refused"))

	store := NewContentStore(memory.Seeded(), c, time.Minute)
	post, err := store.GetBlogPost(context.Background(), "welcome")
	if err != nil {
		t.Fatalf("expected the backend answer despite the cache outage, got %v", err)
	}
	if post.Slug != "welcome" {
		t.Errorf("unexpected post %+v", post)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
