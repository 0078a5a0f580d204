package http

import (
	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const defaultVisitsLimit = 100

type listVisitsHandler struct {
	logger *logrus.Logger
	repo   visitor.VisitRepository
}

// NewListVisitsHandler serves the most recent visit log rows. repo may be
// nil when the visit log is disabled.
func NewListVisitsHandler(logger *logrus.Logger, repo visitor.VisitRepository) Handler {
	return &listVisitsHandler{logger: logger, repo: repo}
}

func (h *listVisitsHandler) Handle(c *fiber.Ctx) error {
	if h.repo == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "visit log is disabled"})
	}
	limit := c.QueryInt("limit", defaultVisitsLimit)
	if limit <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be positive"})
	}
	visits, err := h.repo.ListRecent(c.UserContext(), limit)
	if err != nil {
		h.logger.WithError(err).Error("failed to list visits")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list visits"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"visits": visits,
		"total":  len(visits),
	})
}
