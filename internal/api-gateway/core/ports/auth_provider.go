package ports

import (
	"context"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
)

// AuthProvider is the backend that owns user accounts.
type AuthProvider interface {
	Login(ctx context.Context, email, password string) (*entity.Session, error)
	// Me resolves a provider access token into the user's profile.
	Me(ctx context.Context, accessToken string) (*entity.User, error)
	Register(ctx context.Context, reg entity.Registration) (*entity.User, error)
}
