package request

import (
	"fmt"
	"net"
	"strings"

	"github.com/NeuralTrust/TrustCloak/pkg/app/botcache"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
)

type BanIPRequest struct {
	IP         string                     `json:"ip"`
	Reason     string                     `json:"reason,omitempty"`
	TrustLevel int                        `json:"trust_level,omitempty"`
	ClientInfo *classification.ClientInfo `json:"client_info,omitempty"`
}

func (r *BanIPRequest) Validate() error {
	r.IP = strings.TrimSpace(r.IP)
	if r.IP == "" {
		return fmt.Errorf("ip is required")
	}
	if net.ParseIP(r.IP) == nil {
		return fmt.Errorf("%w: %q", classification.ErrInvalidIP, r.IP)
	}
	if !botcache.Cacheable(r.IP) {
		return fmt.Errorf("%w: loopback addresses cannot be banned", classification.ErrInvalidIP)
	}
	if r.TrustLevel < 0 || r.TrustLevel > 100 {
		return fmt.Errorf("trust_level must be between 0 and 100")
	}
	if strings.TrimSpace(r.Reason) == "" {
		r.Reason = "manual ban"
	}
	return nil
}

func (r *BanIPRequest) Verdict() classification.Verdict {
	v := classification.NewBot(classification.SourceDefault, r.Reason)
	v.TrustLevel = r.TrustLevel
	v.ClientInfo = r.ClientInfo
	return v
}
