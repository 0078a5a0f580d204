package event

import "reflect"

// Event is a bot cache mutation broadcast to every redirect instance.
// Origin identifies the publishing instance so it can ignore its own echo.
type Event interface {
	Type() string
	OriginID() string
}

var (
	BotCachedEventType       = "BotCachedEvent"
	BotRemovedEventType      = "BotRemovedEvent"
	BotCacheClearedEventType = "BotCacheClearedEvent"
)

var Registry = map[string]reflect.Type{
	BotCachedEventType:       reflect.TypeOf(BotCachedEvent{}),
	BotRemovedEventType:      reflect.TypeOf(BotRemovedEvent{}),
	BotCacheClearedEventType: reflect.TypeOf(BotCacheClearedEvent{}),
}
