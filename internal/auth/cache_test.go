package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/auth-mesh/internal/domain"
)

func TestRedisValidationCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	cache := NewRedisValidationCache(client)
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "tok"); err != nil || ok {
		t.Fatalf("empty cache get = %v, %v", ok, err)
	}

	caller := &domain.CallerIdentity{SubjectID: "sub-1", Username: "alice"}
	if err := cache.Set(ctx, "tok", caller, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := cache.Get(ctx, "tok")
	if err != nil || !ok || *got != *caller {
		t.Fatalf("get = %+v, %v, %v", got, ok, err)
	}

	for _, key := range mr.Keys() {
		if strings.Contains(key, "tok") && !strings.HasPrefix(key, validationCachePrefix) {
			t.Fatalf("raw token leaked into key %q", key)
		}
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := cache.Get(ctx, "tok"); ok {
		t.Fatal("entry should have expired")
	}
}

func TestBoundedTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ta, _ := NewTokenAuthority("secret", WithClock(fixedClock(now)))
	token, _, _ := ta.Issue("sub-1", "alice")

	if got := boundedTTL(token, time.Minute, now); got != time.Minute {
		t.Fatalf("ttl far from expiry = %s", got)
	}
	if got := boundedTTL(token, time.Hour, now.Add(TokenTTL-10*time.Second)); got != 10*time.Second {
		t.Fatalf("ttl near expiry = %s", got)
	}
	if got := boundedTTL(token, time.Minute, now.Add(TokenTTL+time.Second)); got > 0 {
		t.Fatalf("ttl after expiry = %s", got)
	}
	if got := boundedTTL("garbage", time.Minute, now); got != 0 {
		t.Fatalf("ttl for garbage = %s", got)
	}
}
