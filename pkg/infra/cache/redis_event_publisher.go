package cache

import (
	"context"
	"encoding/json"

	"github.com/NeuralTrust/TrustCloak/pkg/infra/cache/channel"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/cache/event"
	"github.com/go-redis/redis/v8"
)

type redisEventPublisher struct {
	client  redis.Cmdable
	channel channel.Channel
}

func NewRedisEventPublisher(client redis.Cmdable, ch channel.Channel) EventPublisher {
	return &redisEventPublisher{
		client:  client,
		channel: ch,
	}
}

func (p *redisEventPublisher) Publish(ctx context.Context, ev event.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	data, err := json.Marshal(RedisMessage{
		Type:  ev.Type(),
		Event: b,
	})
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, string(p.channel), data).Err()
}
