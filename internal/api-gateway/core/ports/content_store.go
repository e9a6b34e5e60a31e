package ports

import (
	"context"
	"errors"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
)

var (
	// ErrNotFound is returned by single-record lookups that matched nothing.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidCredentials is returned when the provider rejects a login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRejected wraps a provider's refusal of caller input, such as an
	// email that is already registered.
	ErrRejected = errors.New("rejected")
)

// ContentStore reads catalog and blog content from the headless backend.
type ContentStore interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	// StockRecords returns the records that exist for ids. Unknown ids are
	// simply absent from the result.
	StockRecords(ctx context.Context, ids []string) ([]entity.StockRecord, error)
	ListBlogPosts(ctx context.Context) ([]entity.BlogPost, error)
	GetBlogPost(ctx context.Context, slug string) (*entity.BlogPost, error)
}
