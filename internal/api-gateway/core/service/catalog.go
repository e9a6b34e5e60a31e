package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/ports"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/apperror"
)

type CatalogService struct {
	store ports.ContentStore
}

func NewCatalogService(store ports.ContentStore) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, apperror.Upstream("Failed to fetch products", err)
	}
	slog.InfoContext(ctx, "retrieved products", "count", len(products))
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	if id == "" {
		return nil, apperror.Validation("Product ID is required")
	}

	product, err := s.store.GetProduct(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, apperror.NotFound("Product not found")
	}
	if err != nil {
		return nil, apperror.Upstream("Failed to fetch product", err)
	}
	return product, nil
}

type BlogService struct {
	store ports.ContentStore
}

func NewBlogService(store ports.ContentStore) *BlogService {
	return &BlogService{store: store}
}

// ListPosts returns posts newest first.
func (s *BlogService) ListPosts(ctx context.Context) ([]entity.BlogPost, error) {
	posts, err := s.store.ListBlogPosts(ctx)
	if err != nil {
		return nil, apperror.Upstream("Failed to fetch blog posts", err)
	}
	slog.InfoContext(ctx, "retrieved blog posts", "count", len(posts))
	return posts, nil
}

func (s *BlogService) GetPost(ctx context.Context, slug string) (*entity.BlogPost, error) {
	if slug == "" {
		return nil, apperror.Validation("Blog post slug is required")
	}

	post, err := s.store.GetBlogPost(ctx, slug)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, apperror.NotFound("Blog post not found")
	}
	if err != nil {
		return nil, apperror.Upstream("Failed to fetch blog post", err)
	}
	return post, nil
}
