package event

type BotRemovedEvent struct {
	Origin string `json:"origin"`
	IP     string `json:"ip"`
}

func (e BotRemovedEvent) Type() string {
	return BotRemovedEventType
}

func (e BotRemovedEvent) OriginID() string {
	return e.Origin
}
