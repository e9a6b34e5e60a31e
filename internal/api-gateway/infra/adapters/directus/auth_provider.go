package directus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/ports"
)

const (
	loginPath = "/auth/login"
	mePath    = "/users/me"
	usersPath = "/users"
)

var userFields = []string{
	"id", "email", "first_name", "last_name", "role", "status",
}

// AuthProvider talks to Directus on behalf of end users. Every call builds a
// client scoped to the caller's own credentials; nothing is shared.
type AuthProvider struct {
	baseURL string
	http    *http.Client
	now     func() time.Time
}

func NewAuthProvider(baseURL string, httpClient *http.Client) *AuthProvider {
	return &AuthProvider{baseURL: baseURL, http: httpClient, now: time.Now}
}

var _ ports.AuthProvider = (*AuthProvider)(nil)

func (p *AuthProvider) userClient(accessToken string) *Client {
	return NewClient(p.baseURL, p.http, StaticToken(accessToken))
}

func (p *AuthProvider) Login(ctx context.Context, email, password string) (*entity.Session, error) {
	return login(ctx, p.userClient(""), email, password, p.now())
}

func (p *AuthProvider) Me(ctx context.Context, accessToken string) (*entity.User, error) {
	q := listQuery(userFields, nil)
	q.Del("limit")

	var record userRecord
	found, err := p.userClient(accessToken).do(ctx, http.MethodGet, mePath, q, nil, &record)
	if err != nil {
		return nil, fmt.Errorf("resolve profile: %w", err)
	}
	if !found || record.ID == "" {
		return nil, fmt.Errorf("resolve profile: %w", ports.ErrNotFound)
	}

	user := record.toEntity()
	return &user, nil
}

// Register creates the account anonymously, which requires the Directus
// public role to be allowed to create users.
func (p *AuthProvider) Register(ctx context.Context, reg entity.Registration) (*entity.User, error) {
	body := map[string]string{
		"email":      reg.Email,
		"password":   reg.Password,
		"first_name": reg.FirstName,
		"last_name":  reg.LastName,
	}

	var record userRecord
	found, err := p.userClient("").do(ctx, http.MethodPost, usersPath, nil, body, &record)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			return nil, fmt.Errorf("create user: %w: %s", ports.ErrRejected, apiErr.Reason())
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if !found {
		// Directus answers 204 when the creator may not read the new row.
		record = userRecord{
			Email:     looseString(reg.Email),
			FirstName: looseString(reg.FirstName),
			LastName:  looseString(reg.LastName),
		}
	}
	user := record.toEntity()
	return &user, nil
}

func login(ctx context.Context, c *Client, email, password string, now time.Time) (*entity.Session, error) {
	body := map[string]string{"email": email, "password": password}

	var record loginRecord
	found, err := c.do(ctx, http.MethodPost, loginPath, nil, body, &record)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && isCredentialFailure(apiErr) {
			return nil, ports.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !found || record.AccessToken == "" {
		return nil, errors.New("login: response carried no access token")
	}

	return &entity.Session{
		AccessToken:  record.AccessToken,
		RefreshToken: record.RefreshToken,
		ExpiresAt:    now.UnixMilli() + int64(record.Expires),
	}, nil
}

func isCredentialFailure(e *APIError) bool {
	if e.Status == http.StatusUnauthorized {
		return true
	}
	return strings.EqualFold(e.Code, "INVALID_CREDENTIALS")
}
