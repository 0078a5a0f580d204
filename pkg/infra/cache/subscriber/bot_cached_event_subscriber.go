package subscriber

import (
	"context"

	"github.com/NeuralTrust/TrustCloak/pkg/app/botcache"
	infraCache "github.com/NeuralTrust/TrustCloak/pkg/infra/cache"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

type BotCachedEventSubscriber struct {
	logger *logrus.Logger
	cache  botcache.Cache
	origin string
}

func NewBotCachedEventSubscriber(
	logger *logrus.Logger,
	cache botcache.Cache,
	origin string,
) infraCache.EventSubscriber[event.BotCachedEvent] {
	return &BotCachedEventSubscriber{logger: logger, cache: cache, origin: origin}
}

func (s BotCachedEventSubscriber) OnEvent(_ context.Context, evt event.BotCachedEvent) error {
	if evt.Origin == s.origin {
		return nil
	}
	s.logger.WithFields(logrus.Fields{
		"ip":     evt.IP,
		"origin": evt.Origin,
	}).Debug("applying bot verdict from peer")
	s.cache.Put(evt.IP, evt.Verdict)
	return nil
}
