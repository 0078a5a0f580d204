package classification

import "strings"

type Classification string

const (
	Human Classification = "HUMAN"
	Bot   Classification = "BOT"
)

// Parse maps a wire value onto a Classification. Anything other than the
// two known values is reported as not ok.
func Parse(value string) (Classification, bool) {
	switch Classification(strings.ToUpper(strings.TrimSpace(value))) {
	case Human:
		return Human, true
	case Bot:
		return Bot, true
	default:
		return "", false
	}
}

type Source string

const (
	SourceCache          Source = "CACHE"
	SourceLocalHeuristic Source = "LOCAL_HEURISTIC"
	SourceRemoteAPI      Source = "REMOTE_API"
	SourceDefault        Source = "DEFAULT"
)

type ClientInfo struct {
	Country   string `json:"country,omitempty" mapstructure:"country"`
	Region    string `json:"region,omitempty" mapstructure:"region"`
	City      string `json:"city,omitempty" mapstructure:"city"`
	ISP       string `json:"isp,omitempty" mapstructure:"isp"`
	UsageType string `json:"usageType,omitempty" mapstructure:"usage_type"`
}

type Verdict struct {
	Classification Classification `json:"classification"`
	Source         Source         `json:"source"`
	Reason         string         `json:"reason"`
	TrustLevel     int            `json:"trust_level,omitempty"`
	ClientInfo     *ClientInfo    `json:"client_info,omitempty"`
}

func NewBot(source Source, reason string) Verdict {
	return Verdict{Classification: Bot, Source: source, Reason: reason}
}

func NewHuman(source Source, reason string) Verdict {
	return Verdict{Classification: Human, Source: source, Reason: reason}
}

func (v Verdict) IsBot() bool {
	return v.Classification == Bot
}
