package directus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/ports"
)

const (
	productsPath = "/items/products"
	blogPath     = "/items/blog_posts"
)

// ContentStore reads products and blog posts with the service-level client.
type ContentStore struct {
	client *Client
}

func NewContentStore(client *Client) *ContentStore {
	return &ContentStore{client: client}
}

var _ ports.ContentStore = (*ContentStore)(nil)

func (s *ContentStore) ListProducts(ctx context.Context) ([]entity.Product, error) {
	var records []productRecord
	if _, err := s.client.do(ctx, http.MethodGet, productsPath, listQuery(productFields, nil), nil, &records); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]entity.Product, 0, len(records))
	for _, r := range records {
		products = append(products, r.toEntity())
	}
	return products, nil
}

func (s *ContentStore) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	var records []productRecord
	q := itemQuery(productFields, "id", id)
	if _, err := s.client.do(ctx, http.MethodGet, productsPath, q, nil, &records); err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	if len(records) == 0 {
		return nil, ports.ErrNotFound
	}

	product := records[0].toEntity()
	return &product, nil
}

// StockRecords fetches every id in one request. Ids Directus does not know
// are missing from the reply.
func (s *ContentStore) StockRecords(ctx context.Context, ids []string) ([]entity.StockRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	filter := map[string]any{"id": map[string]any{"_in": ids}}
	var records []productRecord
	if _, err := s.client.do(ctx, http.MethodGet, productsPath, listQuery(stockFields, filter), nil, &records); err != nil {
		return nil, fmt.Errorf("fetch stock for %d products: %w", len(ids), err)
	}

	stock := make([]entity.StockRecord, 0, len(records))
	for _, r := range records {
		stock = append(stock, r.toStock())
	}
	return stock, nil
}

func (s *ContentStore) ListBlogPosts(ctx context.Context) ([]entity.BlogPost, error) {
	q := listQuery(blogFields, nil)
	q.Set("sort", "-published_date")

	var records []blogRecord
	if _, err := s.client.do(ctx, http.MethodGet, blogPath, q, nil, &records); err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}

	posts := make([]entity.BlogPost, 0, len(records))
	for _, r := range records {
		posts = append(posts, r.toEntity())
	}
	return posts, nil
}

func (s *ContentStore) GetBlogPost(ctx context.Context, slug string) (*entity.BlogPost, error) {
	var records []blogRecord
	q := itemQuery(blogFields, "slug", slug)
	if _, err := s.client.do(ctx, http.MethodGet, blogPath, q, nil, &records); err != nil {
		return nil, fmt.Errorf("get blog post %s: %w", slug, err)
	}
	if len(records) == 0 {
		return nil, ports.ErrNotFound
	}

	post := records[0].toEntity()
	return &post, nil
}

func listQuery(fields []string, filter map[string]any) url.Values {
	q := url.Values{}
	q.Set("fields", strings.Join(fields, ","))
	q.Set("limit", "-1")
	if filter != nil {
		// Marshalling a map of strings and string slices cannot fail.
		raw, _ := json.Marshal(filter)
		q.Set("filter", string(raw))
	}
	return q
}

func itemQuery(fields []string, column, value string) url.Values {
	q := listQuery(fields, map[string]any{column: map[string]any{"_eq": value}})
	q.Set("limit", "1")
	return q
}
