package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Redirect
	RedirectHandler Handler

	// Cache administration
	GetCacheStatsHandler    Handler
	ListCacheEntriesHandler Handler
	GetCacheEntryHandler    Handler
	BanIPHandler            Handler
	DeleteCacheEntryHandler Handler
	ClearCacheHandler       Handler

	// Visits
	ListVisitsHandler Handler

	// Version
	GetVersionHandler Handler
}
