package v1

import (
	"hireflow/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Candidates   *handler.CandidateHandler
	Jobs         *handler.JobsHandler
	Applications *handler.ApplicationHandler
	Contracts    *handler.ContractHandler
}

// Register mounts the v1 API. auth resolves the caller for protected routes.
// Job routes mix public reads with protected writes, so they take auth
// per route instead of through the protected group.
func Register(r fiber.Router, h Handlers, auth fiber.Handler) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}
	if h.Jobs != nil {
		jobs := r.Group("/jobs")
		h.Jobs.RegisterRoutes(jobs, auth)
		if h.Applications != nil {
			h.Applications.RegisterJobRoutes(jobs, auth)
		}
	}

	protected := r.Group("", auth)
	mounts := []struct {
		prefix string
		mount  func(fiber.Router)
	}{
		{"/users", routerOf(h.Users)},
		{"/candidates", routerOf(h.Candidates)},
		{"/applications", routerOf(h.Applications)},
		{"/contracts", routerOf(h.Contracts)},
	}
	for _, m := range mounts {
		if m.mount != nil {
			m.mount(protected.Group(m.prefix))
		}
	}
}

type routeRegistrar interface {
	RegisterRoutes(r fiber.Router)
}

// routerOf returns nil for a nil handler so unset handlers mount nothing.
func routerOf[H interface {
	comparable
	routeRegistrar
}](h H) func(fiber.Router) {
	var zero H
	if h == zero {
		return nil
	}
	return h.RegisterRoutes
}
