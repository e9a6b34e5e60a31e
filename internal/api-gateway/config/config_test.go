package config

import (
	"strings"
	"testing"
	"time"
)

func baseEnv() map[string]string {
	return map[string]string{
		"JWT_SECRET":     "s3cret",
		"DIRECTUS_TOKEN": "static-token",
	}
}

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(baseEnv())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Addr() != ":3001" {
		t.Errorf("expected :3001, got %s", cfg.Addr())
	}
	if cfg.DirectusURL != "http://localhost:8055" {
		t.Errorf("unexpected directus url %s", cfg.DirectusURL)
	}
	if cfg.JWTExpiresIn.Duration() != 24*time.Hour {
		t.Errorf("expected 24h expiry, got %v", cfg.JWTExpiresIn.Duration())
	}
	if cfg.CORSOrigin != "http://localhost:3000" {
		t.Errorf("unexpected cors origin %s", cfg.CORSOrigin)
	}
	if cfg.RateLimitRequests != 100 || cfg.RateLimitWindow != 15*time.Minute {
		t.Errorf("unexpected rate limit %d/%v", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	if cfg.ContentStore != ContentStoreDirectus {
		t.Errorf("unexpected content store %s", cfg.ContentStore)
	}
}

func TestLoadFromValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr string
	}{
		{"missing secret", func(m map[string]string) { delete(m, "JWT_SECRET") }, "JWT_SECRET"},
		{"no backend credentials", func(m map[string]string) { delete(m, "DIRECTUS_TOKEN") }, "DIRECTUS_TOKEN"},
		{"email without password", func(m map[string]string) {
			delete(m, "DIRECTUS_TOKEN")
			m["DIRECTUS_EMAIL"] = "admin@example.com"
		}, "DIRECTUS_PASSWORD"},
		{"unknown store", func(m map[string]string) { m["CONTENT_STORE"] = "postgres" }, "CONTENT_STORE"},
		{"bad lifetime", func(m map[string]string) { m["JWT_EXPIRES_IN"] = "forever" }, "invalid lifetime"},
		{"zero rate limit", func(m map[string]string) { m["RATE_LIMIT_REQUESTS"] = "0" }, "rate limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			environ := baseEnv()
			tt.mutate(environ)
			_, err := LoadFrom(environ)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFromEmailPassword(t *testing.T) {
	environ := map[string]string{
		"JWT_SECRET":        "s3cret",
		"DIRECTUS_EMAIL":    "admin@example.com",
		"DIRECTUS_PASSWORD": "pw",
		"PORT":              ":8080",
	}
	cfg, err := LoadFrom(environ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.Addr())
	}
}

func TestLoadFromMemoryStoreNeedsNoBackend(t *testing.T) {
	_, err := LoadFrom(map[string]string{"JWT_SECRET": "x", "CONTENT_STORE": "memory"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLifetime(t *testing.T) {
	cases := map[string]time.Duration{
		"24h":  24 * time.Hour,
		"7d":   7 * 24 * time.Hour,
		"3600": time.Hour,
		"90m":  90 * time.Minute,
	}
	for in, want := range cases {
		var l Lifetime
		if err := l.UnmarshalText([]byte(in)); err != nil {
			t.Errorf("%q: unexpected error %v", in, err)
			continue
		}
		if l.Duration() != want {
			t.Errorf("%q: got %v, want %v", in, l.Duration(), want)
		}
	}

	var l Lifetime
	if err := l.UnmarshalText([]byte("xd")); err == nil {
		t.Error("expected error for malformed day count")
	}
}
