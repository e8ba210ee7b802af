package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	domain "github.com/nerggnet/WebBackend/domain/cookbook"
	"github.com/nerggnet/WebBackend/modules/cookbook"
)

// healthHandler handles GET /health. Any unhealthy watched module turns the
// response into a 503.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	resp := HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module": "api",
			"port":   m.cfg.Port,
		},
	}

	modules := make(map[string]ModuleHealth, len(m.checks))
	for _, check := range m.checks {
		h := check.Health(c.UserContext())
		modules[check.Name()] = ModuleHealth{Healthy: h.Healthy, Message: h.Message}
		if !h.Healthy {
			resp.Status = "unhealthy"
		}
	}
	if len(modules) > 0 {
		resp.Modules = modules
	}

	if resp.Status != "healthy" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

// commandHandler handles POST /api/v1/<collection>. The body is a command;
// the response is always an envelope.
func (m *APIModule) commandHandler(collection domain.Collection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cmd, err := cookbook.DecodeCommand(c.Body())
		if err != nil {
			env := cookbook.Failure(err)
			return c.Status(statusFor(env.Reason)).JSON(env)
		}

		env, err := m.cookbook.Execute(c.UserContext(), collection, cmd)
		if err != nil {
			m.logger.Error("cookbook call failed", "collection", string(collection), "action", cmd.Action, "error", err)
			env = cookbook.Failure(fmt.Errorf("%w: %v", cookbook.ErrStorage, err))
		}
		return c.Status(statusFor(env.Reason)).JSON(env)
	}
}

// statusFor maps an outcome reason onto an HTTP status.
func statusFor(reason cookbook.Reason) int {
	switch reason {
	case cookbook.ReasonNone:
		return fiber.StatusOK
	case cookbook.ReasonValidation, cookbook.ReasonDuplicateChild, cookbook.ReasonChildNotFound:
		return fiber.StatusBadRequest
	case cookbook.ReasonNotFound:
		return fiber.StatusNotFound
	case cookbook.ReasonConflict, cookbook.ReasonConcurrentModification:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
