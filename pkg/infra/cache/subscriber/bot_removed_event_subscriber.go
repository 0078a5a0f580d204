package subscriber

import (
	"context"

	"github.com/NeuralTrust/TrustCloak/pkg/app/botcache"
	infraCache "github.com/NeuralTrust/TrustCloak/pkg/infra/cache"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

type BotRemovedEventSubscriber struct {
	logger *logrus.Logger
	cache  botcache.Cache
	origin string
}

func NewBotRemovedEventSubscriber(
	logger *logrus.Logger,
	cache botcache.Cache,
	origin string,
) infraCache.EventSubscriber[event.BotRemovedEvent] {
	return &BotRemovedEventSubscriber{logger: logger, cache: cache, origin: origin}
}

func (s BotRemovedEventSubscriber) OnEvent(_ context.Context, evt event.BotRemovedEvent) error {
	if evt.Origin == s.origin {
		return nil
	}
	s.logger.WithField("ip", evt.IP).Debug("removing bot entry on peer request")
	s.cache.Remove(evt.IP)
	return nil
}
