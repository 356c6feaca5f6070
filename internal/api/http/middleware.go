package http

import (
	"context"
	"errors"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-mesh/internal/observability"
	apperrors "github.com/spec-kit/auth-mesh/pkg/util/errorutil"
)

// RegisterMiddlewares attaches global middlewares such as error handling and
// logging. Errors that carry no kind are reported as fallback.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration, fallback apperrors.Kind) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics, fallback))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, fallback apperrors.Kind) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.New(fallback)
			}
			if err == nil {
				return
			}

			// Routing failures raised by fiber itself (404, 405) keep their status.
			var fiberErr *fiber.Error
			if _, tagged := apperrors.KindOf(err); !tagged && errors.As(err, &fiberErr) {
				metrics.RecordError(c.Route().Path, c.Method(), strconv.Itoa(fiberErr.Code))
				c.Status(fiberErr.Code)
				_ = c.JSON(apperrors.Body{Status: strconv.Itoa(fiberErr.Code), Message: fiberErr.Message})
				err = nil
				return
			}

			domainErr := apperrors.ToDomainError(err, fallback)
			status := domainErr.Kind.HTTPStatus()
			metrics.RecordError(c.Route().Path, c.Method(), domainErr.Kind.Code())
			if status >= fiber.StatusInternalServerError {
				logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
			}
			c.Status(status)
			_ = c.JSON(apperrors.BodyFor(domainErr.Kind))
			err = nil
		}()
		return c.Next()
	}
}
