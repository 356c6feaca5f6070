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
	"github.com/spec-kit/auth-mesh/internal/lifecycle"
	"github.com/spec-kit/auth-mesh/internal/observability"
	"github.com/spec-kit/auth-mesh/internal/persistence"
	"github.com/spec-kit/auth-mesh/internal/repository"
	"github.com/spec-kit/auth-mesh/internal/service"
	apperrors "github.com/spec-kit/auth-mesh/pkg/util/errorutil"
)

func main() {
	cfg, err := config.Load("user-service", "3001")
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

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var verifierOpts []auth.RemoteOption
	if ttl := cfg.Auth.ValidationCacheTTL(); ttl > 0 && redis != nil {
		verifierOpts = append(verifierOpts, auth.WithValidationCache(auth.NewRedisValidationCache(redis.Client), ttl))
		logger.Info("validation cache enabled", zap.Duration("ttl", ttl))
	}
	verifier := auth.NewRemoteVerifier(cfg.Upstreams.AuthServiceURL, cfg.Upstreams.Timeout(), logger, verifierOpts...)

	profiles := service.NewProfileService(
		repository.NewProfileRepository(persistence.NewStore[domain.Profile](pg, "profiles")),
		nil,
	)

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(cfg.App, logger, metrics, apperrors.ProfileInternalError)

	httptransport.RegisterProfileRoutes(app, httptransport.ProfileRouteConfig{
		Health: handlers.NewHealthHandler(handlers.HealthConfig{
			ServiceName: cfg.App.Name,
			Version:     cfg.App.Version,
			Message:     "User service is running",
			Endpoints: map[string]string{
				"health":      "GET /",
				"get_users":   "GET /users",
				"create_user": "POST /users",
				"get_user":    "GET /users/:id",
				"update_user": "PUT /users/:id",
				"delete_user": "DELETE /users/:id",
			},
			Postgres: pg,
			Redis:    redis,
			Metrics:  metrics,
		}),
		Profiles:       handlers.NewProfileHandler(profiles),
		AuthMiddleware: auth.NewAuthMiddleware(verifier),
	})

	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("auth_service", cfg.Upstreams.AuthServiceURL))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	lifecycle.WaitForShutdown(logger)

	_ = app.Shutdown()
}
