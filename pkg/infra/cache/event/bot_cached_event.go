package event

import "github.com/NeuralTrust/TrustCloak/pkg/domain/classification"

type BotCachedEvent struct {
	Origin  string                 `json:"origin"`
	IP      string                 `json:"ip"`
	Verdict classification.Verdict `json:"verdict"`
}

func (e BotCachedEvent) Type() string {
	return BotCachedEventType
}

func (e BotCachedEvent) OriginID() string {
	return e.Origin
}
