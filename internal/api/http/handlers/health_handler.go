package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-directory/internal/persistence"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers liveness and readiness checks.
type HealthHandler struct {
	serviceName string
	version     string
	store       Pinger
	storeName   string
	redis       Pinger
}

// NewHealthHandler returns a new handler instance. storeName labels the
// record store backend in readiness output.
func NewHealthHandler(serviceName, version, storeName string, store, redis Pinger) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, store: store, storeName: storeName, redis: redis}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies. An unconfigured
// Redis is reported but does not fail readiness.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	if err := h.store.Ping(ctx); err != nil {
		depStatus[h.storeName] = err.Error()
		ready = false
	} else {
		depStatus[h.storeName] = "ok"
	}

	if h.redis != nil {
		switch err := h.redis.Ping(ctx); {
		case errors.Is(err, persistence.ErrRedisDisabled):
			depStatus["redis"] = "disabled"
		case err != nil:
			depStatus["redis"] = err.Error()
			ready = false
		default:
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
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}
