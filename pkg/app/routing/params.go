package routing

import (
	"strings"

	"github.com/NeuralTrust/TrustCloak/pkg/app/autograb"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
)

// ParamsFromRequest picks the parameter string a visitor arrived with. The
// query wins over the fragment, and both win over a literal $ or * suffix in
// the path.
func ParamsFromRequest(req visitor.Request) string {
	if req.Query != "" {
		return "?" + req.Query
	}
	if req.Fragment != "" {
		return "#" + req.Fragment
	}
	return pathSuffix(req.RawURL)
}

func pathSuffix(rawURL string) string {
	path := rawURL
	if i := strings.Index(path, "://"); i >= 0 {
		path = path[i+3:]
		if j := strings.IndexByte(path, '/'); j >= 0 {
			path = path[j:]
		} else {
			path = ""
		}
	}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if i := strings.IndexAny(path, "$*"); i >= 0 {
		return path[i:]
	}
	return ""
}

// OutboundParams returns the parameter string to forward for a verdict and
// whether anything was removed from it.
func OutboundParams(params string, c classification.Classification) (string, bool) {
	if c != classification.Bot || !autograb.ContainsEmail(params) {
		return params, false
	}
	stripped := autograb.StripEmails(params)
	return stripped, stripped != params
}

// AppendParams attaches a finalized parameter string to a destination URL.
func AppendParams(destination, params string) string {
	if params == "" {
		return destination
	}
	switch params[0] {
	case '?':
		base, fragment := splitFragment(destination)
		sep := "?"
		if strings.Contains(base, "?") {
			sep = "&"
		}
		if len(params) == 1 {
			return destination
		}
		return base + sep + params[1:] + fragment
	case '#':
		base, _ := splitFragment(destination)
		return base + params
	case '$', '*':
		if !strings.HasSuffix(destination, "/") {
			destination += "/"
		}
		return destination + params
	default:
		return destination
	}
}

func splitFragment(u string) (string, string) {
	if i := strings.Index(u, "#"); i >= 0 {
		return u[:i], u[i:]
	}
	return u, ""
}
