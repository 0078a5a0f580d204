package http

import (
	"net"
	"strings"

	"github.com/NeuralTrust/TrustCloak/pkg/common"
	"github.com/gofiber/fiber/v2"
)

// ClientIP resolves the visitor address from the proxy headers in
// common.ClientIPHeaders, falling back to the socket peer. Header values
// that do not parse as an IP are skipped.
func ClientIP(c *fiber.Ctx) string {
	for _, header := range common.ClientIPHeaders {
		if ip := firstIP(c.Get(header)); ip != "" {
			return ip
		}
	}
	return c.Context().RemoteIP().String()
}

func firstIP(value string) string {
	if value == "" {
		return ""
	}
	for _, part := range strings.Split(value, ",") {
		candidate := strings.TrimSpace(part)
		if candidate == "" {
			continue
		}
		if host, _, err := net.SplitHostPort(candidate); err == nil {
			candidate = host
		}
		candidate = strings.Trim(candidate, "[]")
		if ip := net.ParseIP(candidate); ip != nil {
			return ip.String()
		}
		return ""
	}
	return ""
}
