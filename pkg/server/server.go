package server

import (
	"context"
	"fmt"
	"time"

	"github.com/NeuralTrust/TrustCloak/pkg/config"
	"github.com/NeuralTrust/TrustCloak/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Server interface defines the common behavior for all servers
type Server interface {
	Run() error
	Shutdown(ctx context.Context) error
}

type BaseServer struct {
	Config *config.Config
	Logger *logrus.Logger
	Router *fiber.App
	name   string
	port   int
}

func NewBaseServer(name string, port int, config *config.Config, logger *logrus.Logger) *BaseServer {
	r := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReduceMemoryUsage:     true,
		Network:               fiber.NetworkTCP,
		BodyLimit:             1 * 1024 * 1024,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           60 * time.Second,
		Concurrency:           16384,
	})

	r.Server().MaxConnsPerIP = 1024
	r.Server().NoDefaultServerHeader = true
	r.Server().NoDefaultContentType = true

	return &BaseServer{
		Config: config,
		Logger: logger,
		Router: r,
		name:   name,
		port:   port,
	}
}

func (s *BaseServer) WithRouters(routers ...router.ServerRouter) *BaseServer {
	for _, r := range routers {
		if err := r.BuildRoutes(s.Router); err != nil {
			s.Logger.WithError(err).WithField("server", s.name).Error("failed to build routes")
		}
	}
	return s
}

func (s *BaseServer) Run() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.port)
	s.Logger.WithFields(logrus.Fields{
		"server": s.name,
		"addr":   addr,
	}).Info("starting server")
	return s.Router.Listen(addr)
}

func (s *BaseServer) Shutdown(ctx context.Context) error {
	s.Logger.WithField("server", s.name).Info("shutting down server")
	return s.Router.ShutdownWithContext(ctx)
}
