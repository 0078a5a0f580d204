package router

import (
	handlers "github.com/NeuralTrust/TrustCloak/pkg/handlers/http"
	"github.com/gofiber/fiber/v2"
)

type redirectRouter struct {
	handlerTransport handlers.HandlerTransport
}

func NewRedirectRouter(handlerTransport handlers.HandlerTransport) ServerRouter {
	return &redirectRouter{handlerTransport: handlerTransport}
}

func (r *redirectRouter) BuildRoutes(router *fiber.App) error {
	if r.handlerTransport.RedirectHandler == nil {
		return ErrInvalidHandlerTransport
	}
	router.Get(HealthPath, healthHandler)
	router.Get(PingPath, pingHandler)
	router.Get("/*", r.handlerTransport.RedirectHandler.Handle)
	return nil
}
