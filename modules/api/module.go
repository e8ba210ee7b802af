// Package api is the driving adapter exposing the cookbook over HTTP with
// Fiber.
package api

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domain "github.com/nerggnet/WebBackend/domain/cookbook"
	"github.com/nerggnet/WebBackend/modules/cookbook"
)

// Config configures the HTTP server.
type Config struct {
	Port           string
	AllowedOrigins string
}

// ConfigFromEnv reads PORT and CORS_ALLOWED_ORIGINS.
func ConfigFromEnv() Config {
	cfg := Config{
		Port:           os.Getenv("PORT"),
		AllowedOrigins: os.Getenv("CORS_ALLOWED_ORIGINS"),
	}
	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.AllowedOrigins == "" {
		cfg.AllowedOrigins = "http://localhost:3000,http://localhost:8080"
	}
	return cfg
}

// HealthChecker is a module whose health GET /health reports.
type HealthChecker interface {
	Name() string
	Health(ctx context.Context) mono.HealthStatus
}

// APIModule serves the cookbook commands over HTTP.
type APIModule struct {
	app      *fiber.App
	cookbook cookbook.CookbookPort
	cfg      Config
	gatherer prometheus.Gatherer
	checks   []HealthChecker
	logger   types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates the API module. gatherer backs GET /metrics.
func NewModule(cfg Config, gatherer prometheus.Gatherer, logger types.Logger) *APIModule {
	return &APIModule{
		cfg:      cfg,
		gatherer: gatherer,
		logger:   logger.WithModule("api"),
	}
}

// WatchHealth adds modules whose health GET /health aggregates.
func (m *APIModule) WatchHealth(checks ...HealthChecker) {
	m.checks = append(m.checks, checks...)
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{cookbook.ModuleName}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case cookbook.ModuleName:
		m.cookbook = cookbook.NewCookbookAdapter(container)
	}
}

// Start builds the Fiber app and starts listening.
func (m *APIModule) Start(_ context.Context) error {
	if m.cookbook == nil {
		return fmt.Errorf("cookbook dependency not set")
	}

	m.app = m.newApp()

	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(":" + m.cfg.Port); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	m.logger.Info("HTTP server started", "port", m.cfg.Port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server")
	if err := m.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.cfg.Port,
		},
	}
}

func (m *APIModule) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Cookbook",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	app.Use(recover.New())
	app.Use(m.requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: m.cfg.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	m.setupRoutes(app)
	return app
}

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes(app *fiber.App) {
	app.Get("/health", m.healthHandler)
	if m.gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api/v1")
	for _, collection := range domain.Collections() {
		api.Post("/"+string(collection), m.commandHandler(collection))
	}
}

// errorHandler handles errors Fiber raises outside the command handlers.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}

func (m *APIModule) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		m.logger.Debug("HTTP request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
		return err
	}
}
