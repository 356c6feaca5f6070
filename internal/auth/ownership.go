package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/auth-mesh/pkg/util/errorutil"
)

// RequireOwner lets the request through only when the authenticated caller's
// subject equals the route parameter param. It runs before any lookup, so a
// caller gets 403 for another subject's id whether or not it exists.
func RequireOwner(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFromContext(c)
		if !ok {
			return apperrors.New(apperrors.ProfileMissingAuthHeader)
		}
		if caller.SubjectID != c.Params(param) {
			return apperrors.New(apperrors.ProfileForbidden)
		}
		return c.Next()
	}
}
