package router

import (
	handlers "github.com/NeuralTrust/TrustCloak/pkg/handlers/http"
	"github.com/NeuralTrust/TrustCloak/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
)

type adminRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
}

func NewAdminRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
) ServerRouter {
	return &adminRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
	}
}

func (r *adminRouter) BuildRoutes(router *fiber.App) error {
	h := r.handlerTransport
	if h.GetCacheStatsHandler == nil || h.GetVersionHandler == nil {
		return ErrInvalidHandlerTransport
	}

	router.Get(HealthPath, healthHandler)
	router.Get(PingPath, pingHandler)

	v1 := router.Group("/v1")
	{
		if !r.middlewareTransport.Empty() {
			v1.Use(r.middlewareTransport.GetMiddlewares()...)
		}

		v1.Get("/version", h.GetVersionHandler.Handle)

		cache := v1.Group("/cache")
		{
			cache.Get("/stats", h.GetCacheStatsHandler.Handle)
			cache.Get("/entries", h.ListCacheEntriesHandler.Handle)
			cache.Get("/entries/:ip", h.GetCacheEntryHandler.Handle)
			cache.Post("/entries", h.BanIPHandler.Handle)
			cache.Delete("/entries/:ip", h.DeleteCacheEntryHandler.Handle)
			cache.Delete("/entries", h.ClearCacheHandler.Handle)
		}

		if h.ListVisitsHandler != nil {
			v1.Get("/visits", h.ListVisitsHandler.Handle)
		}
	}
	return nil
}
