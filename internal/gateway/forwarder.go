package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-mesh/internal/config"
)

// Errors returned when an upstream cannot be reached or does not answer in time.
var (
	ErrAuthServiceUnavailable = errors.New("auth service unavailable")
	ErrUserServiceUnavailable = errors.New("user service unavailable")
)

// Request is one client call to relay. Only Authorization is carried over
// from the client's headers.
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	Body          []byte
}

// Response is the upstream answer, relayed verbatim.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

type upstream struct {
	name        string
	baseURL     string
	unavailable error
}

// Forwarder relays gateway requests to the auth and user services.
type Forwarder struct {
	auth    upstream
	users   upstream
	timeout time.Duration
	logger  *zap.Logger
}

// NewForwarder constructs a forwarder for the configured upstreams.
func NewForwarder(cfg config.UpstreamConfig, logger *zap.Logger) *Forwarder {
	return &Forwarder{
		auth:    upstream{name: "auth-service", baseURL: cfg.AuthServiceURL, unavailable: ErrAuthServiceUnavailable},
		users:   upstream{name: "user-service", baseURL: cfg.UserServiceURL, unavailable: ErrUserServiceUnavailable},
		timeout: cfg.Timeout(),
		logger:  logger,
	}
}

// ToAuth relays req to the authentication service.
func (f *Forwarder) ToAuth(ctx context.Context, req Request) (*Response, error) {
	return f.forward(ctx, f.auth, req)
}

// ToUsers relays req to the profile service.
func (f *Forwarder) ToUsers(ctx context.Context, req Request) (*Response, error) {
	return f.forward(ctx, f.users, req)
}

// UserPath builds the profile service path for an optional id.
func UserPath(id string) string {
	if id == "" {
		return "/users"
	}
	return "/users/" + url.PathEscape(id)
}

func (f *Forwarder) forward(ctx context.Context, up upstream, req Request) (*Response, error) {
	target := strings.TrimRight(up.baseURL, "/") + req.Path
	if req.Query != "" {
		target += "?" + req.Query
	}

	agent := fiber.AcquireAgent()
	httpReq := agent.Request()
	httpReq.Header.SetMethod(req.Method)
	httpReq.SetRequestURI(target)
	if req.Authorization != "" {
		httpReq.Header.Set(fiber.HeaderAuthorization, req.Authorization)
	}
	if len(req.Body) > 0 {
		httpReq.Header.SetContentType(fiber.MIMEApplicationJSON)
		httpReq.SetBody(req.Body)
	}
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, fmt.Errorf("build %s request: %w", up.name, err)
	}
	agent.Timeout(f.deadline(ctx))

	resp := fiber.AcquireResponse()
	defer fiber.ReleaseResponse(resp)
	agent.SetResponse(resp)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		f.logger.Warn("upstream request failed",
			zap.String("upstream", up.name),
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Errors("errors", errs))
		return nil, fmt.Errorf("%w: %v", up.unavailable, errors.Join(errs...))
	}

	return &Response{
		Status:      status,
		ContentType: string(resp.Header.ContentType()),
		Body:        append([]byte(nil), body...),
	}, nil
}

func (f *Forwarder) deadline(ctx context.Context) time.Duration {
	timeout := f.timeout
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
