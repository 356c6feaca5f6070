package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/auth-mesh/internal/domain"
)

// ValidationCache remembers successful remote validations.
type ValidationCache interface {
	Get(ctx context.Context, token string) (*domain.CallerIdentity, bool, error)
	Set(ctx context.Context, token string, caller *domain.CallerIdentity, ttl time.Duration) error
}

const validationCachePrefix = "authmesh:validation:"

// RedisValidationCache stores identities under the SHA-256 of the token so
// raw tokens never reach Redis.
type RedisValidationCache struct {
	client *redis.Client
}

// NewRedisValidationCache wraps client.
func NewRedisValidationCache(client *redis.Client) *RedisValidationCache {
	return &RedisValidationCache{client: client}
}

type cachedCaller struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

func (c *RedisValidationCache) Get(ctx context.Context, token string) (*domain.CallerIdentity, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry cachedCaller
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, err
	}
	return &domain.CallerIdentity{SubjectID: entry.UserID, Username: entry.Username}, true, nil
}

func (c *RedisValidationCache) Set(ctx context.Context, token string, caller *domain.CallerIdentity, ttl time.Duration) error {
	raw, err := json.Marshal(cachedCaller{UserID: caller.SubjectID, Username: caller.Username})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(token), raw, ttl).Err()
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return validationCachePrefix + hex.EncodeToString(sum[:])
}

// boundedTTL caps ttl at the token's own expiry. The exp claim is read
// without verification: it only shortens how long an already validated
// answer is reused. Tokens without a readable exp are not cached.
func boundedTTL(token string, ttl time.Duration, now time.Time) time.Duration {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil || claims.ExpiresAt == nil {
		return 0
	}
	if remaining := claims.ExpiresAt.Time.Sub(now); remaining < ttl {
		return remaining
	}
	return ttl
}
