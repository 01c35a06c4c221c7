package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/api/http/handlers"
	"github.com/spec-kit/task-service/internal/api/pipeline"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Prefix     string
	Dispatcher *pipeline.Dispatcher
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Tasks      *handlers.TasksHandler
}

// NewApp builds the fiber application. Errors fiber raises on its own are
// answered through d.
func NewApp(name string, d *pipeline.Dispatcher) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               name,
		ErrorHandler:          ErrorHandler(d),
		DisableStartupMessage: true,
	})
}

// Routes lists every API route relative to the prefix.
func Routes(cfg RouteConfig) []pipeline.Route {
	return []pipeline.Route{
		{Method: fiber.MethodGet, Path: "/", Handler: cfg.Health.Live},
		{Method: fiber.MethodGet, Path: "/health", Handler: cfg.Health.Live},
		{Method: fiber.MethodGet, Path: "/health/ready", Handler: cfg.Health.Ready},

		{Method: fiber.MethodPost, Path: "/auth/register", Handler: cfg.Auth.Register},
		{Method: fiber.MethodPost, Path: "/auth/login", Handler: cfg.Auth.Login},
		{Method: fiber.MethodGet, Path: "/auth/me", Protected: true, Handler: cfg.Auth.Me},

		{Method: fiber.MethodGet, Path: "/tasks", Protected: true, Handler: cfg.Tasks.List},
		{Method: fiber.MethodPost, Path: "/tasks", Protected: true, Handler: cfg.Tasks.Create},
		{Method: fiber.MethodGet, Path: "/tasks/:id", Protected: true, Handler: cfg.Tasks.Get},
		{Method: fiber.MethodPut, Path: "/tasks/:id", Protected: true, Handler: cfg.Tasks.Update},
		{Method: fiber.MethodDelete, Path: "/tasks/:id", Protected: true, Handler: cfg.Tasks.Delete},
	}
}

// RegisterRoutes wires HTTP routes. Preflight requests and unmatched paths
// still pass through the dispatcher so they carry the usual headers.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	prefix := strings.TrimSuffix(cfg.Prefix, "/")

	for _, route := range Routes(cfg) {
		path := prefix + route.Path
		if path == "" {
			path = "/"
		}
		route.Path = path
		app.Add(route.Method, path, Handle(cfg.Dispatcher, route))
	}

	app.Options("/*", Handle(cfg.Dispatcher, pipeline.Route{
		Method:  fiber.MethodOptions,
		Path:    "/*",
		Handler: handlers.Preflight,
	}))
	app.Use(Handle(cfg.Dispatcher, pipeline.Route{Handler: handlers.NotFound}))
}
