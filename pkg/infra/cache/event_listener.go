package cache

import (
	"context"
	"encoding/json"

	"github.com/NeuralTrust/TrustCloak/pkg/infra/cache/channel"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/cache/event"
)

// HandlerFunc receives a decoded event of the type it was registered for.
type HandlerFunc func(ctx context.Context, evt event.Event) error

type EventListener interface {
	Listen(ctx context.Context, channels ...channel.Channel)
	Register(eventType string, handler HandlerFunc)
}

type EventSubscriber[T any] interface {
	OnEvent(ctx context.Context, ev T) error
}

// RedisMessage is the envelope carried on the pub/sub channel.
type RedisMessage struct {
	Type  string          `json:"type"`
	Event json.RawMessage `json:"event"`
}
