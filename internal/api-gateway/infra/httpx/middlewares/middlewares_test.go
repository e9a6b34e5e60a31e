package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redismock/v9"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/ports"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/apperror"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/constants"
)

type fakeAuth struct {
	valid string
}

func (f fakeAuth) Authenticate(_ context.Context, token string) (*ports.TokenClaims, error) {
	if token != f.valid {
		return nil, apperror.Unauthorized("Invalid token")
	}
	return &ports.TokenClaims{ID: "jti-1", User: entity.User{ID: "u-1"}}, nil
}

func statusWriter(w http.ResponseWriter, _ *http.Request, err error) {
	w.WriteHeader(apperror.From(err).Status)
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"":                "",
		"Bearer abc":      "abc",
		"bearer abc":      "abc",
		"Bearer  abc ":    "abc",
		"Basic abc":       "",
		"Bearer":          "",
		"abc":             "",
		"Token something": "",
	}
	for header, want := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set(constants.HeaderAuthorization, header)
		}
		if got := BearerToken(r); got != want {
			t.Errorf("%q: expected %q, got %q", header, want, got)
		}
	}
}

func TestRequireAuth(t *testing.T) {
	var seen *entity.User
	h := RequireAuth(fakeAuth{valid: "good"}, statusWriter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		if _, ok := ClaimsFromContext(r.Context()); !ok {
			t.Error("expected claims in context")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"invalid", "Bearer bad", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set(constants.HeaderAuthorization, tc.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			if w.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
	if seen == nil || seen.ID != "u-1" {
		t.Errorf("expected the user to reach the handler, got %+v", seen)
	}
}

func TestOptionalAuth(t *testing.T) {
	h := OptionalAuth(fakeAuth{valid: "good"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); ok {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	for header, want := range map[string]int{"": http.StatusOK, "Bearer bad": http.StatusOK, "Bearer good": http.StatusAccepted} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set(constants.HeaderAuthorization, header)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != want {
			t.Errorf("%q: expected %d, got %d", header, want, w.Code)
		}
	}
}

func TestAttachRequestContext(t *testing.T) {
	var got string
	h := middleware.RequestID(AttachRequestContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = RequestID(r.Context())
	})))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(middleware.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if got != "req-42" {
		t.Errorf("expected request id in context, got %q", got)
	}
	if w.Header().Get(constants.HeaderXRequestId) != "req-42" {
		t.Errorf("expected request id echoed, got %q", w.Header().Get(constants.HeaderXRequestId))
	}
}

func TestRedisLimitCounter(t *testing.T) {
	client, mock := redismock.NewClientMock()
	counter := NewRedisLimitCounter(client, "gw")
	counter.Config(100, time.Minute)

	now := time.Unix(1_700_000_040, 0)
	curr := now.Truncate(time.Minute)
	prev := curr.Add(-time.Minute)
	currKey := counter.windowKey("10.0.0.1", curr)
	prevKey := counter.windowKey("10.0.0.1", prev)

	mock.ExpectIncrBy(currKey, 1).SetVal(1)
	mock.ExpectExpire(currKey, 3*time.Minute).SetVal(true)
	mock.ExpectMGet(currKey, prevKey).SetVal([]any{"4", nil})

	if err := counter.Increment("10.0.0.1", curr); err != nil {
		t.Fatalf("increment: %v", err)
	}
	c, p, err := counter.Get("10.0.0.1", curr, prev)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c != 4 || p != 0 {
		t.Errorf("expected 4/0, got %d/%d", c, p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRedisLimitCounterFallsBack(t *testing.T) {
	client, mock := redismock.NewClientMock()
	counter := NewRedisLimitCounter(client, "gw")
	counter.Config(100, time.Minute)

	curr := time.Unix(1_700_000_000, 0).Truncate(time.Minute)
	prev := curr.Add(-time.Minute)
	currKey := counter.windowKey("ip", curr)
	down := errors.New("connection refused")

	mock.ExpectIncrBy(currKey, 2).SetErr(down)
	mock.ExpectMGet(currKey, counter.windowKey("ip", prev)).SetErr(down)

	if err := counter.IncrementBy("ip", curr, 2); err != nil {
		t.Fatalf("increment should fall back, got %v", err)
	}
	c, _, err := counter.Get("ip", curr, prev)
	if err != nil {
		t.Fatalf("get should fall back, got %v", err)
	}
	if c != 2 {
		t.Errorf("expected the local counter to hold 2, got %d", c)
	}
}
