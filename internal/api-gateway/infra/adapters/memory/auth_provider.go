package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/ports"
)

const sessionTTL = 15 * time.Minute

type account struct {
	user entity.User
	hash []byte
}

type session struct {
	email     string
	expiresAt time.Time
}

// AuthProvider keeps accounts in process. It is meant for local runs only:
// accounts vanish on restart.
type AuthProvider struct {
	mu       sync.Mutex
	accounts map[string]*account // by lower-cased email
	sessions map[string]session  // by access token
	cost     int
	now      func() time.Time
}

var _ ports.AuthProvider = (*AuthProvider)(nil)

func NewAuthProvider() *AuthProvider {
	return &AuthProvider{
		accounts: make(map[string]*account),
		sessions: make(map[string]session),
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
}

func (p *AuthProvider) Register(_ context.Context, reg entity.Registration) (*entity.User, error) {
	key := strings.ToLower(reg.Email)

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), p.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: password is longer than 72 bytes", ports.ErrRejected)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.accounts[key]; ok {
		return nil, fmt.Errorf("%w: email %s is already registered", ports.ErrRejected, reg.Email)
	}

	now := p.now().UTC().Format(time.RFC3339)
	user := entity.User{
		ID:        uuid.NewString(),
		Email:     reg.Email,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Role:      "user",
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.accounts[key] = &account{user: user, hash: hash}
	return &user, nil
}

func (p *AuthProvider) Login(_ context.Context, email, password string) (*entity.Session, error) {
	key := strings.ToLower(email)

	p.mu.Lock()
	defer p.mu.Unlock()

	acc, ok := p.accounts[key]
	if !ok || bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return nil, ports.ErrInvalidCredentials
	}

	now := p.now()
	p.pruneSessions(now)

	token := uuid.NewString()
	expiresAt := now.Add(sessionTTL)
	p.sessions[token] = session{email: key, expiresAt: expiresAt}
	return &entity.Session{
		AccessToken: token,
		ExpiresAt:   expiresAt.UnixMilli(),
	}, nil
}

func (p *AuthProvider) Me(_ context.Context, accessToken string) (*entity.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sess, ok := p.sessions[accessToken]
	if !ok {
		return nil, ports.ErrInvalidCredentials
	}
	if !p.now().Before(sess.expiresAt) {
		delete(p.sessions, accessToken)
		return nil, ports.ErrInvalidCredentials
	}
	user := p.accounts[sess.email].user
	return &user, nil
}

// pruneSessions drops expired sessions. Callers hold p.mu.
func (p *AuthProvider) pruneSessions(now time.Time) {
	for token, sess := range p.sessions {
		if !now.Before(sess.expiresAt) {
			delete(p.sessions, token)
		}
	}
}
