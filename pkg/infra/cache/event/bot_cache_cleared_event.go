package event

type BotCacheClearedEvent struct {
	Origin string `json:"origin"`
}

func (e BotCacheClearedEvent) Type() string {
	return BotCacheClearedEventType
}

func (e BotCacheClearedEvent) OriginID() string {
	return e.Origin
}
