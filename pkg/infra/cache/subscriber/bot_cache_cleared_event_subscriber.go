package subscriber

import (
	"context"

	"github.com/NeuralTrust/TrustCloak/pkg/app/botcache"
	infraCache "github.com/NeuralTrust/TrustCloak/pkg/infra/cache"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

type BotCacheClearedEventSubscriber struct {
	logger *logrus.Logger
	cache  botcache.Cache
	origin string
}

func NewBotCacheClearedEventSubscriber(
	logger *logrus.Logger,
	cache botcache.Cache,
	origin string,
) infraCache.EventSubscriber[event.BotCacheClearedEvent] {
	return &BotCacheClearedEventSubscriber{logger: logger, cache: cache, origin: origin}
}

func (s BotCacheClearedEventSubscriber) OnEvent(_ context.Context, evt event.BotCacheClearedEvent) error {
	if evt.Origin == s.origin {
		return nil
	}
	s.logger.WithField("origin", evt.Origin).Info("clearing bot cache on peer request")
	s.cache.Clear()
	return nil
}
