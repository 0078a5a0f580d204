package httpx

import "net/http"

// Client is the outbound HTTP surface shared by every remote integration.
// *http.Client satisfies it, so tests can swap in httptest servers.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}
