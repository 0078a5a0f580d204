package server

import (
	"github.com/NeuralTrust/TrustCloak/pkg/config"
	handlers "github.com/NeuralTrust/TrustCloak/pkg/handlers/http"
	"github.com/NeuralTrust/TrustCloak/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type RedirectServerDI struct {
	HandlerTransport handlers.HandlerTransport
	Config           *config.Config
	Logger           *logrus.Logger
}

type RedirectServer struct {
	*BaseServer
}

func NewRedirectServer(di RedirectServerDI) *RedirectServer {
	base := NewBaseServer("redirect", di.Config.Server.RedirectPort, di.Config, di.Logger)
	base.WithRouters(router.NewRedirectRouter(di.HandlerTransport))
	return &RedirectServer{BaseServer: base}
}
