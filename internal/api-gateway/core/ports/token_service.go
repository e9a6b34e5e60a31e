package ports

import (
	"context"
	"errors"
	"time"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
)

// TokenClaims is what a verified gateway token carries.
type TokenClaims struct {
	ID        string
	User      entity.User
	ExpiresAt time.Time
}

type TokenService interface {
	Issue(user entity.User) (*entity.IssuedToken, error)
	Verify(token string) (*TokenClaims, error)
}

// TokenRevoker remembers logged-out tokens until they would have expired.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
