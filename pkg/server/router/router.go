package router

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	HealthPath = "/__/health"
	PingPath   = "/__/ping"
)

var ErrInvalidHandlerTransport = errors.New("invalid handler transport")

type ServerRouter interface {
	BuildRoutes(router *fiber.App) error
}

func healthHandler(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func pingHandler(ctx *fiber.Ctx) error {
	return ctx.SendString("pong")
}
