package server

import (
	"github.com/NeuralTrust/TrustCloak/pkg/config"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const MetricsPath = "/metrics"

type MetricsServer struct {
	*BaseServer
}

func NewMetricsServer(cfg *config.Config, logger *logrus.Logger) *MetricsServer {
	base := NewBaseServer("metrics", cfg.Server.MetricsPort, cfg, logger)
	base.Router.Use(recover.New())

	handler := fasthttpadaptor.NewFastHTTPHandler(prometheus.Handler())
	base.Router.Get(MetricsPath, func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	})
	return &MetricsServer{BaseServer: base}
}
