package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-mesh/internal/domain"
	apperrors "github.com/spec-kit/auth-mesh/pkg/util/errorutil"
)

const callerKey = "auth_caller"

// Verifier resolves an Authorization header into a caller.
type Verifier interface {
	Authenticate(ctx context.Context, authorization string) (*domain.CallerIdentity, error)
}

// AuthMiddleware validates bearer tokens remotely and stores the caller.
type AuthMiddleware struct {
	verifier Verifier
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(verifier Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	caller, err := m.verifier.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return mapVerifyError(err)
	}

	c.Locals(callerKey, caller)
	return c.Next()
}

func mapVerifyError(err error) error {
	switch {
	case errors.Is(err, ErrMissingAuthHeader):
		return apperrors.New(apperrors.ProfileMissingAuthHeader)
	case errors.Is(err, ErrInvalidAuthHeader):
		return apperrors.New(apperrors.ProfileInvalidAuthHeader)
	case errors.Is(err, ErrInvalidToken):
		return apperrors.New(apperrors.ProfileInvalidToken)
	case errors.Is(err, ErrAuthServiceUnavailable):
		return apperrors.Wrap(apperrors.ProfileAuthServiceUnavailable, err)
	default:
		return apperrors.Wrap(apperrors.ProfileInternalError, err)
	}
}

// CallerFromContext retrieves the authenticated caller.
func CallerFromContext(c *fiber.Ctx) (*domain.CallerIdentity, bool) {
	val := c.Locals(callerKey)
	if val == nil {
		return nil, false
	}
	caller, ok := val.(*domain.CallerIdentity)
	return caller, ok
}
