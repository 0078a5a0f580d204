package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/NeuralTrust/TrustCloak/pkg/infra/cache/channel"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/cache/event"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	minReconnectDelay = time.Second
	maxReconnectDelay = 30 * time.Second
)

type redisEventListener struct {
	logger   *logrus.Logger
	client   *redis.Client
	registry map[string]reflect.Type

	mu       sync.RWMutex
	handlers map[string][]HandlerFunc
}

// NewRedisEventListener decodes envelopes whose type is present in registry
// and hands them to the handlers registered for that type.
func NewRedisEventListener(
	logger *logrus.Logger,
	client *redis.Client,
	registry map[string]reflect.Type,
) EventListener {
	return &redisEventListener{
		logger:   logger,
		client:   client,
		registry: registry,
		handlers: make(map[string][]HandlerFunc),
	}
}

// RegisterEventSubscriber binds a typed subscriber to the listener.
func RegisterEventSubscriber[T event.Event](listener EventListener, subscriber EventSubscriber[T]) {
	var zero T
	listener.Register(zero.Type(), func(ctx context.Context, evt event.Event) error {
		typed, ok := evt.(T)
		if !ok {
			return fmt.Errorf("unexpected event %T for %s", evt, zero.Type())
		}
		return subscriber.OnEvent(ctx, typed)
	})
}

func (r *redisEventListener) Register(eventType string, handler HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[eventType] = append(r.handlers[eventType], handler)
}

// Listen blocks until ctx is done, resubscribing with a capped backoff
// whenever the pub/sub connection drops.
func (r *redisEventListener) Listen(ctx context.Context, channels ...channel.Channel) {
	names := make([]string, 0, len(channels))
	for _, ch := range channels {
		names = append(names, string(ch))
	}

	delay := minReconnectDelay
	for ctx.Err() == nil {
		if r.consume(ctx, names) {
			delay = minReconnectDelay
		}
		if ctx.Err() != nil {
			break
		}

		r.logger.WithField("retry_in", delay.String()).Warn("redis pubsub disconnected")
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
		if delay *= 2; delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
	r.logger.Info("redis pubsub listener stopped")
}

// consume reports whether at least one message was received.
func (r *redisEventListener) consume(ctx context.Context, names []string) bool {
	pubSub := r.client.Subscribe(ctx, names...)
	defer func() { _ = pubSub.Close() }()

	if _, err := pubSub.Receive(ctx); err != nil {
		r.logger.WithError(err).Debug("redis pubsub subscribe failed")
		return false
	}
	r.logger.WithField("channels", names).Debug("redis pubsub connected")

	received := false
	messages := pubSub.Channel()
	for {
		select {
		case <-ctx.Done():
			return received
		case msg, ok := <-messages:
			if !ok {
				return received
			}
			received = true
			r.handleMessage(ctx, msg.Payload)
		}
	}
}

func (r *redisEventListener) handleMessage(ctx context.Context, payload string) {
	var envelope RedisMessage
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		r.logger.WithError(err).Error("error decoding redis message")
		return
	}

	evt, err := r.decode(envelope)
	if err != nil {
		r.logger.WithError(err).WithField("type", envelope.Type).Error("error decoding cache event")
		return
	}

	r.mu.RLock()
	handlers := r.handlers[envelope.Type]
	r.mu.RUnlock()

	for _, handle := range handlers {
		if err := handle(ctx, evt); err != nil {
			r.logger.WithError(err).WithField("type", envelope.Type).Error("cache event handler failed")
		}
	}
}

func (r *redisEventListener) decode(envelope RedisMessage) (event.Event, error) {
	concreteType, ok := r.registry[envelope.Type]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", envelope.Type)
	}
	ptr := reflect.New(concreteType)
	if err := json.Unmarshal(envelope.Event, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", envelope.Type, err)
	}
	evt, ok := ptr.Elem().Interface().(event.Event)
	if !ok {
		return nil, fmt.Errorf("type %s does not implement event.Event", envelope.Type)
	}
	return evt, nil
}
