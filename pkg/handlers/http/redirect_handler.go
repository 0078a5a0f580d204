package http

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/TrustCloak/pkg/app/decision"
	"github.com/NeuralTrust/TrustCloak/pkg/common"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type redirectHandler struct {
	logger       *logrus.Logger
	orchestrator decision.Orchestrator
	fallback     string
}

// NewRedirectHandler answers every visit with a bare 302. fallback is used
// when the decision yields no destination or the pipeline panics.
func NewRedirectHandler(
	logger *logrus.Logger,
	orchestrator decision.Orchestrator,
	fallback string,
) Handler {
	return &redirectHandler{
		logger:       logger,
		orchestrator: orchestrator,
		fallback:     fallback,
	}
}

func (h *redirectHandler) Handle(c *fiber.Ctx) (err error) {
	req := VisitorRequest(c)
	c.Set(common.RequestIDHeader, req.RequestID)

	defer func() {
		if r := recover(); r != nil {
			h.logger.WithFields(logrus.Fields{
				"error":      fmt.Sprint(r),
				"ip":         req.IP,
				"request_id": req.RequestID,
			}).Error("redirect decision panicked")
			err = redirect(c, h.fallback)
		}
	}()

	ctx := context.WithValue(c.UserContext(), common.RequestIDKey, req.RequestID)
	d := h.orchestrator.Decide(ctx, req)

	location := d.Destination
	if location == "" {
		location = h.fallback
	}
	return redirect(c, location)
}

func redirect(c *fiber.Ctx, location string) error {
	c.Response().ResetBody()
	c.Set(fiber.HeaderLocation, location)
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Status(fiber.StatusFound)
	return nil
}

// VisitorRequest copies the fields the decision engine reads from an inbound
// request.
func VisitorRequest(c *fiber.Ctx) visitor.Request {
	requestID := c.Get(common.RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	uri := c.Request().URI()
	return visitor.Request{
		IP:             ClientIP(c),
		UserAgent:      c.Get(fiber.HeaderUserAgent),
		Referer:        c.Get(fiber.HeaderReferer),
		Accept:         c.Get(fiber.HeaderAccept),
		AcceptLanguage: c.Get(fiber.HeaderAcceptLanguage),
		AcceptEncoding: c.Get(fiber.HeaderAcceptEncoding),
		XRequestedWith: c.Get(fiber.HeaderXRequestedWith),
		RawURL:         c.BaseURL() + c.OriginalURL(),
		Query:          string(uri.QueryString()),
		Fragment:       string(uri.Hash()),
		Origin:         c.Get(fiber.HeaderOrigin),
		RequestID:      requestID,
	}
}
