// Package memory provides in-process adapters for local runs without a
// Directus instance, and doubles as a fake in tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/ports"
)

type ContentStore struct {
	mu       sync.RWMutex
	products []entity.Product
	posts    []entity.BlogPost
}

var _ ports.ContentStore = (*ContentStore)(nil)

func NewContentStore(products []entity.Product, posts []entity.BlogPost) *ContentStore {
	s := &ContentStore{
		products: slices.Clone(products),
		posts:    slices.Clone(posts),
	}
	slices.SortStableFunc(s.posts, func(a, b entity.BlogPost) int {
		return -compareStrings(a.PublishedDate, b.PublishedDate)
	})
	return s
}

// SetStock overwrites the available quantity of a product. It reports
// whether the product exists.
func (s *ContentStore) SetStock(id string, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].StockQuantity = quantity
			return true
		}
	}
	return false
}

func (s *ContentStore) ListProducts(_ context.Context) ([]entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products), nil
}

func (s *ContentStore) GetProduct(_ context.Context, id string) (*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (s *ContentStore) StockRecords(_ context.Context, ids []string) ([]entity.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []entity.StockRecord
	for _, p := range s.products {
		if slices.Contains(ids, p.ID) {
			records = append(records, entity.StockRecord{ID: p.ID, Name: p.Name, AvailableStock: p.StockQuantity})
		}
	}
	return records, nil
}

func (s *ContentStore) ListBlogPosts(_ context.Context) ([]entity.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.posts), nil
}

func (s *ContentStore) GetBlogPost(_ context.Context, slug string) (*entity.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.posts {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, ports.ErrNotFound
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
