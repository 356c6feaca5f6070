package main

import (
	"log"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/auth-mesh/internal/api/http"
	"github.com/spec-kit/auth-mesh/internal/api/http/handlers"
	"github.com/spec-kit/auth-mesh/internal/config"
	"github.com/spec-kit/auth-mesh/internal/gateway"
	"github.com/spec-kit/auth-mesh/internal/lifecycle"
	"github.com/spec-kit/auth-mesh/internal/observability"
	apperrors "github.com/spec-kit/auth-mesh/pkg/util/errorutil"
)

func main() {
	cfg, err := config.Load("gateway-service", "3002")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(cfg.App, logger, metrics, apperrors.GatewayInternalError)

	httptransport.RegisterGatewayRoutes(app, httptransport.GatewayRouteConfig{
		Health: handlers.NewHealthHandler(handlers.HealthConfig{
			ServiceName: cfg.App.Name,
			Version:     cfg.App.Version,
			Message:     "Gateway service is running",
			Endpoints: map[string]string{
				"register":    "POST /api/register",
				"login":       "POST /api/login",
				"validate":    "POST /api/validate",
				"get_users":   "GET /api/users",
				"create_user": "POST /api/users",
				"get_user":    "GET /api/users/:id",
				"update_user": "PUT /api/users/:id",
				"delete_user": "DELETE /api/users/:id",
			},
			Metrics: metrics,
		}),
		Gateway: handlers.NewGatewayHandler(gateway.NewForwarder(cfg.Upstreams, logger)),
	})

	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("auth_service", cfg.Upstreams.AuthServiceURL),
			zap.String("user_service", cfg.Upstreams.UserServiceURL))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	lifecycle.WaitForShutdown(logger)

	_ = app.Shutdown()
}
