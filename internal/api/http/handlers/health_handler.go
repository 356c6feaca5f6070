package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-mesh/internal/observability"
	"github.com/spec-kit/auth-mesh/internal/persistence"
)

// HealthConfig describes a service for its info and probe endpoints.
type HealthConfig struct {
	ServiceName string
	Version     string
	Message     string
	Endpoints   map[string]string
	Postgres    *persistence.Postgres
	Redis       *persistence.Redis
	Metrics     *observability.Metrics
}

// HealthHandler responds to info, liveness and readiness probes.
type HealthHandler struct {
	cfg HealthConfig
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(cfg HealthConfig) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// Index describes the service and its routes.
func (h *HealthHandler) Index(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"service":   h.cfg.ServiceName,
		"message":   h.cfg.Message,
		"endpoints": h.cfg.Endpoints,
	})
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.cfg.ServiceName,
		"version": h.cfg.Version,
	})
}

// Ready reports service readiness by checking the dependencies that are
// configured. A service running on the in-memory store is always ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	if h.cfg.Postgres.Enabled() {
		if err := h.cfg.Postgres.Ping(ctx); err != nil {
			depStatus["postgres"] = err.Error()
			ready = false
		} else {
			depStatus["postgres"] = "ok"
		}
	}

	if h.cfg.Redis != nil {
		if err := h.cfg.Redis.Ping(ctx); err != nil {
			depStatus["redis"] = err.Error()
			ready = false
		} else {
			depStatus["redis"] = "ok"
		}
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"status":       "503",
		"message":      "one or more dependencies unavailable",
		"dependencies": depStatus,
	})
}

// Metrics returns the in-memory request counters.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(h.cfg.Metrics.Snapshot())
}
