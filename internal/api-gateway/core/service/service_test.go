package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/ports"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/infra/adapters/memory"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/infra/adapters/token"
	"github.com/jcmexdev/storefront-gateway/internal/audit"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/apperror"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/cache"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/constants"
)

type fakeAudit struct {
	mu      sync.Mutex
	entries []*audit.Entry
	err     error
}

func (f *fakeAudit) Save(_ context.Context, e *audit.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
	return f.err
}

// stockStore serves fixed stock records and counts batch fetches.
type stockStore struct {
	ports.ContentStore
	records []entity.StockRecord
	err     error
	calls   int
	lastIDs []string
}

func (s *stockStore) StockRecords(_ context.Context, ids []string) ([]entity.StockRecord, error) {
	s.calls++
	s.lastIDs = ids
	return s.records, s.err
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.Error, got %T %v", err, err)
	}
	return appErr.Status
}

func TestCheckoutProceeds(t *testing.T) {
	store := &stockStore{records: []entity.StockRecord{
		{ID: "1", Name: "Mug", AvailableStock: 10},
		{ID: "2", Name: "Cap", AvailableStock: 5},
	}}
	rec := &fakeAudit{}
	svc := NewCheckoutService(store, rec)

	ctx := context.WithValue(context.Background(), constants.ContextKeyRequestID, "req-1")
	verdict, err := svc.Check(ctx, &entity.User{ID: "u-1"}, []entity.LineItem{
		{ProductID: "1", Quantity: 3}, {ProductID: "2", Quantity: 2}, {ProductID: "1", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !verdict.CanProceed || verdict.TotalItems != 6 {
		t.Errorf("unexpected verdict %+v", verdict)
	}
	if store.calls != 1 || strings.Join(store.lastIDs, ",") != "1,2" {
		t.Errorf("expected one batch for the distinct ids, got %d calls with %v", store.calls, store.lastIDs)
	}

	if len(rec.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(rec.entries))
	}
	e := rec.entries[0]
	if e.RequestID != "req-1" || e.UserID != "u-1" || e.Outcome != audit.OutcomeApproved || e.TotalItems != 6 {
		t.Errorf("unexpected audit entry %+v", e)
	}
}

func TestCheckoutDeniedStillSucceeds(t *testing.T) {
	store := &stockStore{records: []entity.StockRecord{{ID: "1", Name: "Mug", AvailableStock: 2}}}
	rec := &fakeAudit{err: errors.New("disk full")}
	svc := NewCheckoutService(store, rec)

	verdict, err := svc.Check(context.Background(), nil, []entity.LineItem{
		{ProductID: "1", Quantity: 5}, {ProductID: "9", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("a denied checkout or a broken audit log must not error: %v", err)
	}
	if verdict.CanProceed {
		t.Fatal("expected the checkout to be denied")
	}
	want := entity.CheckoutDeniedPrefix + "Mug, " + entity.ProductNotFoundName
	if verdict.Message != want {
		t.Errorf("expected message %q, got %q", want, verdict.Message)
	}
	if rec.entries[0].Outcome != audit.OutcomeDenied {
		t.Errorf("expected a denied audit entry, got %s", rec.entries[0].Outcome)
	}
}

func TestCheckoutValidation(t *testing.T) {
	store := &stockStore{}
	svc := NewCheckoutService(store, nil)

	cases := map[string][]entity.LineItem{
		"empty":         nil,
		"zero quantity": {{ProductID: "1", Quantity: 0}},
		"negative":      {{ProductID: "1", Quantity: -2}},
		"blank id":      {{ProductID: " ", Quantity: 1}},
		"too large":     {{ProductID: "1", Quantity: entity.MaxLineQuantity + 1}},
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Check(context.Background(), nil, items)
			if got := statusOf(t, err); got != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", got)
			}
		})
	}
	if store.calls != 0 {
		t.Errorf("invalid input must not reach the content store, got %d calls", store.calls)
	}
}

func TestCheckoutUpstreamFailure(t *testing.T) {
	svc := NewCheckoutService(&stockStore{err: errors.New("timeout")}, nil)

	_, err := svc.Check(context.Background(), nil, []entity.LineItem{{ProductID: "1", Quantity: 1}})
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.Error, got %v", err)
	}
	if appErr.Status != http.StatusInternalServerError || appErr.Operational {
		t.Errorf("expected a non-operational 500, got %+v", appErr)
	}
}

func TestCatalogAndBlog(t *testing.T) {
	store := memory.Seeded()
	catalog := NewCatalogService(store)
	blog := NewBlogService(store)
	ctx := context.Background()

	if _, err := catalog.GetProduct(ctx, "missing"); statusOf(t, err) != http.StatusNotFound {
		t.Errorf("expected 404 for a missing product")
	}
	if _, err := catalog.GetProduct(ctx, ""); statusOf(t, err) != http.StatusBadRequest {
		t.Errorf("expected 400 for an empty id")
	}
	if p, err := catalog.GetProduct(ctx, "1"); err != nil || p.ID != "1" {
		t.Errorf("unexpected product %+v %v", p, err)
	}

	posts, err := blog.ListPosts(ctx)
	if err != nil || len(posts) == 0 {
		t.Fatalf("unexpected posts %v %v", posts, err)
	}
	if _, err := blog.GetPost(ctx, "nope"); statusOf(t, err) != http.StatusNotFound {
		t.Errorf("expected 404 for a missing post")
	}
}

func newAuthService(t *testing.T) (*AuthService, *memory.AuthProvider) {
	t.Helper()
	provider := memory.NewAuthProvider()
	tokens := token.NewJWTService("test-secret", time.Hour)
	revoker := token.NewCacheRevoker(cache.NewMemoryCache("test"))
	return NewAuthService(provider, tokens, revoker), provider
}

func TestRegisterLoginLogout(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, entity.Registration{Email: "ada@example.com", Password: "s3cret!", FirstName: "Ada"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.Token.Token == "" || registered.User.Email != "ada@example.com" {
		t.Errorf("unexpected registration %+v", registered)
	}

	_, err = svc.Register(ctx, entity.Registration{Email: "ada@example.com", Password: "other1"})
	if statusOf(t, err) != http.StatusBadRequest {
		t.Error("expected a duplicate registration to be a 400")
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Errorf("expected the provider reason, got %v", err)
	}

	if _, err := svc.Login(ctx, "ada@example.com", "wrong!"); statusOf(t, err) != http.StatusUnauthorized {
		t.Error("expected bad credentials to be a 401")
	}

	logged, err := svc.Login(ctx, "ada@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := svc.Authenticate(ctx, logged.Token.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if claims.User.FirstName != "Ada" {
		t.Errorf("expected profile in token, got %+v", claims.User)
	}

	svc.Logout(ctx, claims)
	_, err = svc.Authenticate(ctx, logged.Token.Token)
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Message != "Token revoked" {
		t.Errorf("expected a revoked token, got %v", err)
	}
	if !errors.Is(err, ports.ErrTokenRevoked) {
		t.Errorf("expected the revocation cause to be kept, got %v", err)
	}

	// Logging out without a token is fine.
	svc.Logout(ctx, nil)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Status != http.StatusUnauthorized || appErr.Message != "Invalid token" {
		t.Errorf("expected 401 Invalid token, got %v", err)
	}
	if !errors.Is(err, ports.ErrTokenInvalid) {
		t.Errorf("expected the verification cause to be kept, got %v", err)
	}
}
