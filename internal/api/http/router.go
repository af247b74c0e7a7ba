package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/employee-directory/internal/api/http/handlers"
	"github.com/spec-kit/employee-directory/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Employees *handlers.EmployeeHandler
	Metrics   *observability.Metrics
}

// RegisterRoutes wires HTTP routes. The fixed-name employee routes are
// registered ahead of /:id.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	employees := app.Group("/api/employee")
	employees.Post("", cfg.Employees.CreateEmployee)
	employees.Get("/GetReportingStructure/:id", cfg.Employees.GetReportingStructure)
	employees.Post("/CreateCompensation", cfg.Employees.CreateCompensation)
	employees.Get("/GetCompensation/:id", cfg.Employees.GetCompensation)
	employees.Get("/:id", cfg.Employees.GetEmployee)
	employees.Put("/:id", cfg.Employees.ReplaceEmployee)
}
