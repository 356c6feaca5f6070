package http

import (
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-mesh/internal/api/dto"
)

func TestGatewayAuthUpstreamDown(t *testing.T) {
	app := newGatewayApp(t, closedURL(t), closedURL(t))

	status, raw := do(t, app, fiber.MethodPost, "/api/login", dto.LoginRequest{Username: "a", Password: "b"}, "")
	expectError(t, status, raw, fiber.StatusServiceUnavailable, "Auth service unavailable")

	status, raw = do(t, app, fiber.MethodGet, "/api/users", nil, "Bearer x")
	expectError(t, status, raw, fiber.StatusServiceUnavailable, "User service unavailable")
}

func TestGatewayEndToEnd(t *testing.T) {
	authApp := newAuthApp(t, newTestClock())
	authURL := serve(t, authApp)
	userURL := serve(t, newProfileApp(t, authURL))
	gw := newGatewayApp(t, authURL, userURL)

	status, raw := do(t, gw, fiber.MethodPost, "/api/register", dto.RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw"}, "")
	if status != fiber.StatusOK {
		t.Fatalf("register = %d %s", status, raw)
	}
	registered := decode[dto.RegisterResponse](t, raw)

	// Upstream errors pass through unchanged.
	status, raw = do(t, gw, fiber.MethodPost, "/api/register", dto.RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw"}, "")
	expectError(t, status, raw, fiber.StatusConflict, "Username already exists")

	status, raw = do(t, gw, fiber.MethodPost, "/api/login", dto.LoginRequest{Username: "alice", Password: "pw"}, "")
	if status != fiber.StatusOK {
		t.Fatalf("login = %d %s", status, raw)
	}
	bearer := "Bearer " + decode[dto.LoginResponse](t, raw).Token

	status, raw = do(t, gw, fiber.MethodGet, "/api/users", nil, "")
	expectError(t, status, raw, fiber.StatusUnauthorized, "Missing authorization header")

	create := dto.CreateProfileRequest{UserID: registered.UserID, Username: "alice", Email: "a@x.com"}
	if status, raw = do(t, gw, fiber.MethodPost, "/api/users", create, bearer); status != fiber.StatusOK {
		t.Fatalf("create via gateway = %d %s", status, raw)
	}
	if status, raw = do(t, gw, fiber.MethodPut, "/api/users/"+registered.UserID, `{"full_name":"Alice"}`, bearer); status != fiber.StatusOK {
		t.Fatalf("update via gateway = %d %s", status, raw)
	}
	status, raw = do(t, gw, fiber.MethodGet, "/api/users/"+registered.UserID, nil, bearer)
	if status != fiber.StatusOK {
		t.Fatalf("get via gateway = %d %s", status, raw)
	}
	if got := decode[struct {
		FullName string `json:"full_name"`
	}](t, raw); got.FullName != "Alice" {
		t.Fatalf("profile = %s", raw)
	}
	if status, raw = do(t, gw, fiber.MethodDelete, "/api/users/"+registered.UserID, nil, bearer); status != fiber.StatusOK {
		t.Fatalf("delete via gateway = %d %s", status, raw)
	}
}

func TestGatewayRelaysEncodedIDsOnce(t *testing.T) {
	var rawPath string
	upstream := fiber.New()
	upstream.All("/*", func(c *fiber.Ctx) error {
		rawPath = string(c.Request().URI().PathOriginal())
		return c.JSON(fiber.Map{})
	})
	userURL := serve(t, upstream)
	gw := newGatewayApp(t, closedURL(t), userURL)

	cases := map[string]string{
		"/api/users/a%20b":      "/users/a%20b",
		"/api/users/caf%C3%A9":  "/users/caf%C3%A9",
		"/api/users/plain-id-1": "/users/plain-id-1",
	}
	for path, want := range cases {
		if status, raw := do(t, gw, fiber.MethodGet, path, nil, "Bearer x"); status != fiber.StatusOK {
			t.Fatalf("GET %s = %d %s", path, status, raw)
		}
		if rawPath != want {
			t.Errorf("GET %s reached upstream as %q, want %q", path, rawPath, want)
		}
	}
}
