package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/ports"
)

var _ ports.TokenService = (*JWTService)(nil)

type userClaims struct {
	User entity.User `json:"user"`
	jwt.RegisteredClaims
}

// JWTService signs HS256 tokens embedding the user profile.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *JWTService) Issue(user entity.User) (*entity.IssuedToken, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	id := uuid.NewString()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, userClaims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &entity.IssuedToken{
		Token:     signed,
		ID:        id,
		ExpiresAt: expiresAt.UnixMilli(),
	}, nil
}

func (s *JWTService) Verify(raw string) (*ports.TokenClaims, error) {
	var claims userClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ports.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ports.ErrTokenInvalid, err)
	}

	return &ports.TokenClaims{
		ID:        claims.ID,
		User:      claims.User,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
