package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouteRegistrar is implemented by every handler of this package.
type RouteRegistrar interface {
	RegisterRoutes(router fiber.Router)
}

// Router mounts the web endpoints behind the tenant middleware.
type Router struct {
	Command      *CommandHandler
	Query        *QueryHandler
	Subscription *SubscriptionHandler
	Stream       *StreamHandler
	Health       *HealthHandler
	Metrics      *Metrics
	Tenant       fiber.Handler
}

// RegisterRoutes registers health and metrics publicly and the rest behind the tenant middleware.
func (r *Router) RegisterRoutes(app fiber.Router) {
	if r.Metrics != nil {
		app.Use(r.Metrics.Middleware())
		app.Get("/metrics", r.Metrics.Handler())
	}
	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}

	api := app.Group("")
	if r.Tenant != nil {
		api = app.Group("", r.Tenant)
	}
	for _, h := range r.registrars() {
		h.RegisterRoutes(api)
	}
}

func (r *Router) registrars() []RouteRegistrar {
	var out []RouteRegistrar
	if r.Command != nil {
		out = append(out, r.Command)
	}
	if r.Query != nil {
		out = append(out, r.Query)
	}
	if r.Subscription != nil {
		out = append(out, r.Subscription)
	}
	if r.Stream != nil {
		out = append(out, r.Stream)
	}
	return out
}
