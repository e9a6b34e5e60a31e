package middlewares

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/ports"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/apperror"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/constants"
)

// Authenticator turns a bearer token into verified claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*ports.TokenClaims, error)
}

// ErrorWriter renders a failure; the httpx package supplies its envelope.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// RequireAuth rejects requests without a valid, unrevoked bearer token.
func RequireAuth(auth Authenticator, writeErr ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				writeErr(w, r, apperror.Unauthorized("Access token required"))
				return
			}

			claims, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth attaches the user when a valid token is present and lets the
// request through either way.
func OptionalAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				slog.DebugContext(r.Context(), "ignoring unusable optional token", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) string {
	header := r.Header.Get(constants.HeaderAuthorization)
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, strings.TrimSpace(constants.BearerPrefix)) {
		return ""
	}
	return strings.TrimSpace(token)
}

func withClaims(ctx context.Context, claims *ports.TokenClaims) context.Context {
	user := claims.User
	ctx = context.WithValue(ctx, constants.ContextKeyToken, claims)
	return context.WithValue(ctx, constants.ContextKeyUser, &user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*entity.User, bool) {
	u, ok := ctx.Value(constants.ContextKeyUser).(*entity.User)
	return u, ok
}

// ClaimsFromContext returns the verified token claims, if any.
func ClaimsFromContext(ctx context.Context) (*ports.TokenClaims, bool) {
	c, ok := ctx.Value(constants.ContextKeyToken).(*ports.TokenClaims)
	return c, ok
}
