package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-mesh/internal/gateway"
	apperrors "github.com/spec-kit/auth-mesh/pkg/util/errorutil"
)

// GatewayHandler relays /api routes to the upstream services.
type GatewayHandler struct {
	forwarder *gateway.Forwarder
}

// NewGatewayHandler constructs handler.
func NewGatewayHandler(forwarder *gateway.Forwarder) *GatewayHandler {
	return &GatewayHandler{forwarder: forwarder}
}

// Auth relays the request to path on the authentication service.
func (h *GatewayHandler) Auth(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp, err := h.forwarder.ToAuth(c.UserContext(), relayRequest(c, path))
		if err != nil {
			return mapForwardError(err)
		}
		return writeRelayed(c, resp)
	}
}

// Users relays /api/users and /api/users/:id to the profile service.
func (h *GatewayHandler) Users(c *fiber.Ctx) error {
	resp, err := h.forwarder.ToUsers(c.UserContext(), relayRequest(c, gateway.UserPath(pathParam(c, "id"))))
	if err != nil {
		return mapForwardError(err)
	}
	return writeRelayed(c, resp)
}

// pathParam returns the route parameter with percent-encoding removed.
func pathParam(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func relayRequest(c *fiber.Ctx, path string) gateway.Request {
	return gateway.Request{
		Method:        c.Method(),
		Path:          path,
		Query:         string(c.Request().URI().QueryString()),
		Authorization: c.Get(fiber.HeaderAuthorization),
		Body:          append([]byte(nil), c.Body()...),
	}
}

func writeRelayed(c *fiber.Ctx, resp *gateway.Response) error {
	contentType := resp.ContentType
	if contentType == "" {
		contentType = fiber.MIMEApplicationJSON
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Status(resp.Status).Send(resp.Body)
}

func mapForwardError(err error) error {
	switch {
	case errors.Is(err, gateway.ErrAuthServiceUnavailable):
		return apperrors.Wrap(apperrors.GatewayAuthServiceUnavailable, err)
	case errors.Is(err, gateway.ErrUserServiceUnavailable):
		return apperrors.Wrap(apperrors.GatewayUserServiceUnavailable, err)
	default:
		return apperrors.Wrap(apperrors.GatewayInternalError, err)
	}
}
