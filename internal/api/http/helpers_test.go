package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/auth-mesh/internal/api/http/handlers"
	"github.com/spec-kit/auth-mesh/internal/auth"
	"github.com/spec-kit/auth-mesh/internal/config"
	"github.com/spec-kit/auth-mesh/internal/domain"
	"github.com/spec-kit/auth-mesh/internal/events"
	"github.com/spec-kit/auth-mesh/internal/gateway"
	"github.com/spec-kit/auth-mesh/internal/observability"
	"github.com/spec-kit/auth-mesh/internal/persistence"
	"github.com/spec-kit/auth-mesh/internal/repository"
	"github.com/spec-kit/auth-mesh/internal/service"
	apperrors "github.com/spec-kit/auth-mesh/pkg/util/errorutil"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Now()}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testAppConfig(name string) config.AppConfig {
	return config.AppConfig{Name: name, Version: "test", RequestTimeoutSeconds: 5}
}

func newAuthApp(t *testing.T, clock *testClock) *fiber.App {
	t.Helper()
	logger := zaptest.NewLogger(t)
	tokens, err := auth.NewTokenAuthority("test-secret", auth.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("token authority: %v", err)
	}

	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, logger).RegisterHandlers()

	authService := service.NewAuthService(service.AuthDependencies{
		Credentials: repository.NewCredentialRepository(persistence.NewMemoryStore[domain.Identity]()),
		Hasher:      auth.NewPasswordHasher(bcrypt.MinCost),
		Tokens:      tokens,
		Dispatcher:  dispatcher,
		Clock:       clock.Now,
	}, logger)

	metrics := observability.NewMetrics()
	app := NewApp(testAppConfig("auth-service"), logger, metrics, apperrors.AuthInternalError)
	RegisterAuthRoutes(app, AuthRouteConfig{
		Health: handlers.NewHealthHandler(handlers.HealthConfig{ServiceName: "auth-service", Metrics: metrics}),
		Auth:   handlers.NewAuthHandler(authService),
	})
	return app
}

func newProfileApp(t *testing.T, authURL string) *fiber.App {
	t.Helper()
	logger := zaptest.NewLogger(t)
	verifier := auth.NewRemoteVerifier(authURL, 2*time.Second, logger)
	profiles := service.NewProfileService(
		repository.NewProfileRepository(persistence.NewMemoryStore[domain.Profile]()),
		nil,
	)

	metrics := observability.NewMetrics()
	app := NewApp(testAppConfig("user-service"), logger, metrics, apperrors.ProfileInternalError)
	RegisterProfileRoutes(app, ProfileRouteConfig{
		Health:         handlers.NewHealthHandler(handlers.HealthConfig{ServiceName: "user-service", Metrics: metrics}),
		Profiles:       handlers.NewProfileHandler(profiles),
		AuthMiddleware: auth.NewAuthMiddleware(verifier),
	})
	return app
}

func newGatewayApp(t *testing.T, authURL, userURL string) *fiber.App {
	t.Helper()
	logger := zaptest.NewLogger(t)
	forwarder := gateway.NewForwarder(config.UpstreamConfig{
		AuthServiceURL: authURL,
		UserServiceURL: userURL,
		TimeoutSeconds: 2,
	}, logger)

	metrics := observability.NewMetrics()
	app := NewApp(testAppConfig("gateway-service"), logger, metrics, apperrors.GatewayInternalError)
	RegisterGatewayRoutes(app, GatewayRouteConfig{
		Health:  handlers.NewHealthHandler(handlers.HealthConfig{ServiceName: "gateway-service", Metrics: metrics}),
		Gateway: handlers.NewGatewayHandler(forwarder),
	})
	return app
}

func serve(t *testing.T, app *fiber.App) string {
	t.Helper()
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)
	return srv.URL
}

func closedURL(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return "http://" + addr
}

// do sends a request through app and returns the status and raw body.
func do(t *testing.T, app *fiber.App, method, path string, body interface{}, authorization string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func expectError(t *testing.T, status int, raw []byte, wantStatus int, wantMessage string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("status = %d, want %d (body %s)", status, wantStatus, raw)
	}
	body := decode[apperrors.Body](t, raw)
	if body.Status != strconv.Itoa(wantStatus) {
		t.Fatalf("body status = %q", body.Status)
	}
	if body.Message != wantMessage {
		t.Fatalf("message = %q, want %q", body.Message, wantMessage)
	}
}
