package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("AUTH_SERVICE_URL", "http://auth.internal:3000/")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "")

	cfg, err := Load("auth-service", "3000")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Name != "auth-service" || cfg.App.Port != "3000" {
		t.Fatalf("unexpected app config %+v", cfg.App)
	}
	if cfg.Store.Backend != StoreBackendMemory {
		t.Fatalf("backend = %q", cfg.Store.Backend)
	}
	if cfg.Upstreams.AuthServiceURL != "http://auth.internal:3000" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.Upstreams.AuthServiceURL)
	}
	if cfg.Upstreams.Timeout() != 10*time.Second {
		t.Fatalf("timeout = %v", cfg.Upstreams.Timeout())
	}
	if cfg.Auth.ValidationCacheTTL() != 0 {
		t.Fatal("validation cache must be disabled by default")
	}
}

func TestLoadRejectsPostgresWithoutDSN(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("POSTGRES_DSN", "")

	if _, err := Load("user-service", "3001"); err == nil {
		t.Fatal("expected error for postgres backend without DSN")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "etcd")

	if _, err := Load("user-service", "3001"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestUpstreamTimeoutNeverZero(t *testing.T) {
	if (UpstreamConfig{TimeoutSeconds: -1}).Timeout() <= 0 {
		t.Fatal("timeout must be bounded")
	}
	if (UpstreamConfig{TimeoutSeconds: 3}).Timeout() != 3*time.Second {
		t.Fatal("explicit timeout not honored")
	}
}
