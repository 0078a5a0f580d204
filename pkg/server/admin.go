package server

import (
	"github.com/NeuralTrust/TrustCloak/pkg/config"
	handlers "github.com/NeuralTrust/TrustCloak/pkg/handlers/http"
	"github.com/NeuralTrust/TrustCloak/pkg/server/middleware"
	"github.com/NeuralTrust/TrustCloak/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type AdminServerDI struct {
	MiddlewareTransport *middleware.Transport
	HandlerTransport    handlers.HandlerTransport
	Config              *config.Config
	Logger              *logrus.Logger
}

type AdminServer struct {
	*BaseServer
}

func NewAdminServer(di AdminServerDI) *AdminServer {
	base := NewBaseServer("admin", di.Config.Server.AdminPort, di.Config, di.Logger)
	base.WithRouters(router.NewAdminRouter(di.MiddlewareTransport, di.HandlerTransport))
	return &AdminServer{BaseServer: base}
}
