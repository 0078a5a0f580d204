package http

import (
	"github.com/NeuralTrust/TrustCloak/pkg/app/botcache"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
	"github.com/NeuralTrust/TrustCloak/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getCacheStatsHandler struct {
	cache botcache.Cache
}

func NewGetCacheStatsHandler(cache botcache.Cache) Handler {
	return &getCacheStatsHandler{cache: cache}
}

// Handle @Summary Bot cache statistics
// @Tags Cache
// @Produce json
// @Router /v1/cache/stats [get]
func (h *getCacheStatsHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.cache.Stats())
}

type listCacheEntriesHandler struct {
	cache botcache.Cache
}

func NewListCacheEntriesHandler(cache botcache.Cache) Handler {
	return &listCacheEntriesHandler{cache: cache}
}

func (h *listCacheEntriesHandler) Handle(c *fiber.Ctx) error {
	entries := h.cache.Entries()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"entries": entries,
		"total":   len(entries),
	})
}

type getCacheEntryHandler struct {
	cache botcache.Cache
}

func NewGetCacheEntryHandler(cache botcache.Cache) Handler {
	return &getCacheEntryHandler{cache: cache}
}

func (h *getCacheEntryHandler) Handle(c *fiber.Ctx) error {
	ip := c.Params("ip")
	entry, ok := h.cache.Get(ip)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": classification.ErrEntryNotFound.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(entry)
}

type banIPHandler struct {
	logger *logrus.Logger
	cache  botcache.Cache
}

func NewBanIPHandler(logger *logrus.Logger, cache botcache.Cache) Handler {
	return &banIPHandler{logger: logger, cache: cache}
}

// Handle @Summary Ban an IP as BOT
// @Tags Cache
// @Accept json
// @Produce json
// @Param request body request.BanIPRequest true "IP to ban"
// @Router /v1/cache/entries [post]
func (h *banIPHandler) Handle(c *fiber.Ctx) error {
	var req request.BanIPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !h.cache.Put(req.IP, req.Verdict()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ip cannot be cached"})
	}
	h.logger.WithFields(logrus.Fields{
		"ip":     req.IP,
		"reason": req.Reason,
	}).Info("ip banned by operator")

	entry, _ := h.cache.Get(req.IP)
	return c.Status(fiber.StatusCreated).JSON(entry)
}

type deleteCacheEntryHandler struct {
	logger *logrus.Logger
	cache  botcache.Cache
}

func NewDeleteCacheEntryHandler(logger *logrus.Logger, cache botcache.Cache) Handler {
	return &deleteCacheEntryHandler{logger: logger, cache: cache}
}

func (h *deleteCacheEntryHandler) Handle(c *fiber.Ctx) error {
	ip := c.Params("ip")
	if !h.cache.Remove(ip) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": classification.ErrEntryNotFound.Error()})
	}
	h.logger.WithField("ip", ip).Info("cache entry removed by operator")
	return c.SendStatus(fiber.StatusNoContent)
}

type clearCacheHandler struct {
	logger *logrus.Logger
	cache  botcache.Cache
}

func NewClearCacheHandler(logger *logrus.Logger, cache botcache.Cache) Handler {
	return &clearCacheHandler{logger: logger, cache: cache}
}

func (h *clearCacheHandler) Handle(c *fiber.Ctx) error {
	h.cache.Clear()
	h.logger.Warn("bot cache cleared by operator")
	return c.SendStatus(fiber.StatusNoContent)
}
