package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-mesh/internal/api/dto"
	"github.com/spec-kit/auth-mesh/internal/domain"
)

// Errors returned by RemoteVerifier.
var (
	ErrMissingAuthHeader      = errors.New("missing authorization header")
	ErrInvalidAuthHeader      = errors.New("invalid authorization header")
	ErrInvalidToken           = errors.New("invalid token")
	ErrAuthServiceUnavailable = errors.New("auth service unavailable")
)

const bearerPrefix = "Bearer "

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingAuthHeader
	}
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || token == "" {
		return "", ErrInvalidAuthHeader
	}
	return token, nil
}

// RemoteVerifier resolves callers by asking the authentication service to
// validate their token. It never holds the signing secret.
type RemoteVerifier struct {
	validateURL string
	timeout     time.Duration
	logger      *zap.Logger
	cache       ValidationCache
	cacheTTL    time.Duration
}

// RemoteOption customizes a RemoteVerifier.
type RemoteOption func(*RemoteVerifier)

// WithValidationCache enables caching of successful validations for at most
// ttl. Without it every call is a round trip.
func WithValidationCache(cache ValidationCache, ttl time.Duration) RemoteOption {
	return func(v *RemoteVerifier) {
		if cache != nil && ttl > 0 {
			v.cache = cache
			v.cacheTTL = ttl
		}
	}
}

// NewRemoteVerifier targets <authServiceURL>/validate. timeout bounds every call.
func NewRemoteVerifier(authServiceURL string, timeout time.Duration, logger *zap.Logger, opts ...RemoteOption) *RemoteVerifier {
	v := &RemoteVerifier{
		validateURL: strings.TrimRight(authServiceURL, "/") + "/validate",
		timeout:     timeout,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Authenticate turns an Authorization header value into the caller's identity.
func (v *RemoteVerifier) Authenticate(ctx context.Context, authorization string) (*domain.CallerIdentity, error) {
	token, err := BearerToken(authorization)
	if err != nil {
		return nil, err
	}

	if caller, ok := v.lookup(ctx, token); ok {
		return caller, nil
	}

	caller, err := v.validate(ctx, token)
	if err != nil {
		return nil, err
	}

	v.remember(ctx, token, caller)
	return caller, nil
}

func (v *RemoteVerifier) validate(ctx context.Context, token string) (*domain.CallerIdentity, error) {
	agent := fiber.Post(v.validateURL)
	agent.Timeout(v.deadline(ctx))
	agent.JSON(dto.ValidateRequest{Token: token})

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrAuthServiceUnavailable, errors.Join(errs...))
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return nil, ErrInvalidToken
	}

	var resp dto.ValidateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode validate response: %w", err)
	}
	if !resp.Valid || resp.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &domain.CallerIdentity{SubjectID: resp.UserID, Username: resp.Username}, nil
}

// deadline is the configured timeout, shortened to the context deadline.
func (v *RemoteVerifier) deadline(ctx context.Context) time.Duration {
	timeout := v.timeout
	if dl, ok := ctx.Deadline(); ok {
		if remaining := time.Until(dl); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		timeout = time.Millisecond
	}
	return timeout
}

func (v *RemoteVerifier) lookup(ctx context.Context, token string) (*domain.CallerIdentity, bool) {
	if v.cache == nil {
		return nil, false
	}
	caller, ok, err := v.cache.Get(ctx, token)
	if err != nil {
		v.logger.Warn("validation cache read failed", zap.Error(err))
		return nil, false
	}
	return caller, ok
}

func (v *RemoteVerifier) remember(ctx context.Context, token string, caller *domain.CallerIdentity) {
	if v.cache == nil {
		return
	}
	ttl := boundedTTL(token, v.cacheTTL, time.Now())
	if ttl <= 0 {
		return
	}
	if err := v.cache.Set(ctx, token, caller, ttl); err != nil {
		v.logger.Warn("validation cache write failed", zap.Error(err))
	}
}
