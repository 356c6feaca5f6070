package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/auth-mesh/internal/api/http"
	"github.com/spec-kit/auth-mesh/internal/api/http/handlers"
	"github.com/spec-kit/auth-mesh/internal/auth"
	"github.com/spec-kit/auth-mesh/internal/config"
	"github.com/spec-kit/auth-mesh/internal/domain"
	"github.com/spec-kit/auth-mesh/internal/events"
	"github.com/spec-kit/auth-mesh/internal/lifecycle"
	"github.com/spec-kit/auth-mesh/internal/observability"
	"github.com/spec-kit/auth-mesh/internal/persistence"
	"github.com/spec-kit/auth-mesh/internal/repository"
	"github.com/spec-kit/auth-mesh/internal/service"
	"github.com/spec-kit/auth-mesh/internal/worker"
	apperrors "github.com/spec-kit/auth-mesh/pkg/util/errorutil"
)

func main() {
	cfg, err := config.Load("auth-service", "3000")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.OpenBackend(ctx, cfg.Store, cfg.Postgres, persistence.DefaultMigrationsDir, logger)
	if err != nil {
		logger.Fatal("failed to open postgres store", zap.Error(err))
	}
	defer pg.Close()

	tokens, err := auth.NewTokenAuthority(cfg.Auth.JWTSecret)
	if err != nil {
		logger.Fatal("failed to init token authority", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	authService := service.NewAuthService(service.AuthDependencies{
		Credentials: repository.NewCredentialRepository(persistence.NewStore[domain.Identity](pg, "credentials")),
		Hasher:      auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		Tokens:      tokens,
		Dispatcher:  dispatcher,
	}, logger)

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(cfg.App, logger, metrics, apperrors.AuthInternalError)

	httptransport.RegisterAuthRoutes(app, httptransport.AuthRouteConfig{
		Health: handlers.NewHealthHandler(handlers.HealthConfig{
			ServiceName: cfg.App.Name,
			Version:     cfg.App.Version,
			Message:     "API is running",
			Endpoints: map[string]string{
				"health":   "GET /",
				"register": "POST /register",
				"login":    "POST /login",
				"validate": "POST /validate",
			},
			Postgres: pg,
			Metrics:  metrics,
		}),
		Auth: handlers.NewAuthHandler(authService),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	lifecycle.WaitForShutdown(logger)

	_ = app.Shutdown()
}
