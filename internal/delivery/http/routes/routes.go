package routes

import (
	"hireflow/internal/delivery/http/handler"
	v1 "hireflow/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	events fiber.Handler
	v1     v1.Handlers
	auth   fiber.Handler
}

func NewRegistry(health *handler.HealthHandler, events fiber.Handler, handlers v1.Handlers, auth fiber.Handler) *Registry {
	return &Registry{health: health, events: events, v1: handlers, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerRealtime(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

func (r *Registry) registerRealtime(app *fiber.App) {
	if r.events != nil {
		app.Get("/ws", r.events)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	v1.Register(app.Group("/api/v1"), r.v1, r.auth)
}
