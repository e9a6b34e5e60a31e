package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/ports"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/apperror"
)

// AuthResult is what login and registration hand back to the client.
type AuthResult struct {
	Token        *entity.IssuedToken
	RefreshToken string
	User         *entity.User
}

type AuthService struct {
	provider ports.AuthProvider
	tokens   ports.TokenService
	revoker  ports.TokenRevoker // nil-safe: logout is a no-op if nil
}

func NewAuthService(provider ports.AuthProvider, tokens ports.TokenService, revoker ports.TokenRevoker) *AuthService {
	return &AuthService{provider: provider, tokens: tokens, revoker: revoker}
}

// Login exchanges credentials with the provider, resolves the profile and
// signs a gateway token for it.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	session, err := s.provider.Login(ctx, email, password)
	if errors.Is(err, ports.ErrInvalidCredentials) {
		slog.WarnContext(ctx, "login rejected", "email", email)
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, apperror.Upstream("Login failed", err)
	}

	user, err := s.provider.Me(ctx, session.AccessToken)
	if err != nil {
		return nil, apperror.Upstream("Failed to get user information", err)
	}

	issued, err := s.tokens.Issue(*user)
	if err != nil {
		return nil, apperror.Internal("Failed to issue token", err)
	}

	slog.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return &AuthResult{Token: issued, RefreshToken: session.RefreshToken, User: user}, nil
}

func (s *AuthService) Register(ctx context.Context, reg entity.Registration) (*AuthResult, error) {
	user, err := s.provider.Register(ctx, reg)
	if errors.Is(err, ports.ErrRejected) {
		slog.WarnContext(ctx, "registration rejected", "email", reg.Email, "error", err)
		return nil, apperror.Validation("Registration failed: " + rejectionReason(err))
	}
	if err != nil {
		return nil, apperror.Upstream("Registration failed", err)
	}

	issued, err := s.tokens.Issue(*user)
	if err != nil {
		return nil, apperror.Internal("Failed to issue token", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return &AuthResult{Token: issued, User: user}, nil
}

// Logout revokes the presented token until it would have expired. Without a
// token there is nothing to do.
func (s *AuthService) Logout(ctx context.Context, claims *ports.TokenClaims) {
	if claims == nil || s.revoker == nil {
		slog.InfoContext(ctx, "user logged out")
		return
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		slog.ErrorContext(ctx, "failed to revoke token", "user_id", claims.User.ID, "error", err)
		return
	}
	slog.InfoContext(ctx, "user logged out", "user_id", claims.User.ID)
}

// Authenticate verifies a bearer token and checks it has not been revoked.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*ports.TokenClaims, error) {
	claims, err := s.tokens.Verify(token)
	switch {
	case errors.Is(err, ports.ErrTokenExpired):
		return nil, apperror.Unauthorized("Token expired").WithCause(err)
	case err != nil:
		return nil, apperror.Unauthorized("Invalid token").WithCause(err)
	}

	if s.revoker == nil {
		return claims, nil
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperror.Upstream("Token verification failed", err)
	}
	if revoked {
		return nil, apperror.Unauthorized("Token revoked").WithCause(ports.ErrTokenRevoked)
	}
	return claims, nil
}

func rejectionReason(err error) string {
	msg := err.Error()
	marker := ports.ErrRejected.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return "request rejected by the user directory"
}
