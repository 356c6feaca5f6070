package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-mesh/internal/config"
	"github.com/spec-kit/auth-mesh/internal/observability"
	apperrors "github.com/spec-kit/auth-mesh/pkg/util/errorutil"
)

// NewApp builds a fiber app with the shared middleware chain. Routes are
// added by one of the Register*Routes functions.
func NewApp(cfg config.AppConfig, logger *zap.Logger, metrics *observability.Metrics, fallback apperrors.Kind) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.Name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, logger, metrics, cfg.RequestTimeout(), fallback)
	return app
}
