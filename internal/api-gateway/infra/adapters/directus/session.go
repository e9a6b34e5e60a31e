package directus

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// refreshMargin is how long before expiry a service session is renewed.
const refreshMargin = 30 * time.Second

// PasswordLogin is the service-level TokenSource for deployments configured
// with an email and password instead of a static token. It logs in lazily and
// logs in again once the access token is about to expire.
type PasswordLogin struct {
	email    string
	password string
	anon     *Client
	now      func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewPasswordLogin(baseURL string, httpClient *http.Client, email, password string) *PasswordLogin {
	return &PasswordLogin{
		email:    email,
		password: password,
		anon:     NewClient(baseURL, httpClient, nil),
		now:      time.Now,
	}
}

func (p *PasswordLogin) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.now().Add(refreshMargin).Before(p.expiresAt) {
		return p.token, nil
	}

	session, err := login(ctx, p.anon, p.email, p.password, p.now())
	if err != nil {
		p.token = ""
		return "", fmt.Errorf("service login: %w", err)
	}
	p.token = session.AccessToken
	p.expiresAt = time.UnixMilli(session.ExpiresAt)
	return p.token, nil
}
