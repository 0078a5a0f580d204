package cache

import (
	"context"
	"time"

	"github.com/NeuralTrust/TrustCloak/pkg/app/botcache"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 2 * time.Second

// SyncedCache broadcasts local mutations to peer instances. Reads and the
// mutation itself never wait on redis; publishing happens in the background.
type SyncedCache struct {
	botcache.Cache
	publisher EventPublisher
	origin    string
	logger    *logrus.Logger
}

var _ botcache.Cache = (*SyncedCache)(nil)

func NewSyncedCache(inner botcache.Cache, publisher EventPublisher, origin string, logger *logrus.Logger) *SyncedCache {
	return &SyncedCache{
		Cache:     inner,
		publisher: publisher,
		origin:    origin,
		logger:    logger,
	}
}

func (c *SyncedCache) Put(ip string, verdict classification.Verdict) bool {
	if !c.Cache.Put(ip, verdict) {
		return false
	}
	c.publish(event.BotCachedEvent{Origin: c.origin, IP: ip, Verdict: verdict})
	return true
}

func (c *SyncedCache) Remove(ip string) bool {
	removed := c.Cache.Remove(ip)
	if removed {
		c.publish(event.BotRemovedEvent{Origin: c.origin, IP: ip})
	}
	return removed
}

func (c *SyncedCache) Clear() {
	c.Cache.Clear()
	c.publish(event.BotCacheClearedEvent{Origin: c.origin})
}

func (c *SyncedCache) publish(ev event.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := c.publisher.Publish(ctx, ev); err != nil {
			c.logger.WithError(err).WithField("event", ev.Type()).Warn("failed to publish bot cache event")
		}
	}()
}
