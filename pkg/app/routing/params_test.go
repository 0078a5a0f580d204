package routing_test

import (
	"testing"

	"github.com/NeuralTrust/TrustCloak/pkg/app/routing"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
	"github.com/stretchr/testify/assert"
)

func TestAppendParams(t *testing.T) {
	tests := []struct {
		name        string
		destination string
		params      string
		want        string
	}{
		{name: "query onto bare destination", destination: "https://dest.com", params: "?ref=x", want: "https://dest.com?ref=x"},
		{name: "query merges into existing query", destination: "https://dest.com?a=1", params: "?ref=x", want: "https://dest.com?a=1&ref=x"},
		{name: "dollar gets a slash", destination: "https://dest.com", params: "$payload", want: "https://dest.com/$payload"},
		{name: "asterisk keeps existing slash", destination: "https://dest.com/", params: "*payload", want: "https://dest.com/*payload"},
		{name: "fragment replaces fragment", destination: "https://dest.com/page#old", params: "#new", want: "https://dest.com/page#new"},
		{name: "fragment appended", destination: "https://dest.com/page", params: "#new", want: "https://dest.com/page#new"},
		{name: "query goes before fragment", destination: "https://dest.com/page#top", params: "?ref=x", want: "https://dest.com/page?ref=x#top"},
		{name: "empty params", destination: "https://dest.com", params: "", want: "https://dest.com"},
		{name: "bare question mark", destination: "https://dest.com", params: "?", want: "https://dest.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, routing.AppendParams(tt.destination, tt.params))
		})
	}
}

func TestParamsFromRequest(t *testing.T) {
	tests := []struct {
		name string
		req  visitor.Request
		want string
	}{
		{
			name: "query",
			req:  visitor.Request{RawURL: "https://x.com/r/abc?email=a@b.com", Query: "email=a@b.com"},
			want: "?email=a@b.com",
		},
		{
			name: "fragment",
			req:  visitor.Request{RawURL: "https://x.com/r/abc", Fragment: "a@b.com"},
			want: "#a@b.com",
		},
		{
			name: "dollar suffix",
			req:  visitor.Request{RawURL: "https://x.com/r/abc$dGVzdEB0ZXN0LmNvbQ=="},
			want: "$dGVzdEB0ZXN0LmNvbQ==",
		},
		{
			name: "asterisk suffix",
			req:  visitor.Request{RawURL: "/r/abc*a@b.com"},
			want: "*a@b.com",
		},
		{
			name: "nothing",
			req:  visitor.Request{RawURL: "https://x.com/r/abc"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, routing.ParamsFromRequest(tt.req))
		})
	}
}

func TestOutboundParams(t *testing.T) {
	params, stripped := routing.OutboundParams("?email=test@example.com&ref=x", classification.Human)
	assert.Equal(t, "?email=test@example.com&ref=x", params)
	assert.False(t, stripped)

	params, stripped = routing.OutboundParams("?email=test@example.com&ref=x", classification.Bot)
	assert.Equal(t, "?ref=x", params)
	assert.True(t, stripped)

	params, stripped = routing.OutboundParams("?ref=x", classification.Bot)
	assert.Equal(t, "?ref=x", params)
	assert.False(t, stripped)

	params, stripped = routing.OutboundParams("$aGVsbG8gd29ybGQgaGVsbG8gd29ybGQ=", classification.Bot)
	assert.Equal(t, "$aGVsbG8gd29ybGQgaGVsbG8gd29ybGQ=", params)
	assert.False(t, stripped)

	params, stripped = routing.OutboundParams("?a=x@y.com&b=z@w.com&ref=1", classification.Bot)
	assert.Equal(t, "?ref=1", params)
	assert.True(t, stripped)
}

func TestRouter_Route(t *testing.T) {
	r := routing.NewRouter(routing.Destinations{
		Human: "https://offer.example.com/landing",
		Bot:   "https://www.example.com",
	})
	req := visitor.Request{
		RawURL: "https://x.com/r/abc?email=test@example.com&ref=x",
		Query:  "email=test@example.com&ref=x",
	}

	human := r.Route(req, classification.Human)
	assert.Equal(t, "https://offer.example.com/landing?email=test@example.com&ref=x", human.URL)
	assert.False(t, human.ParamsStripped)

	bot := r.Route(req, classification.Bot)
	assert.Equal(t, "https://www.example.com?ref=x", bot.URL)
	assert.True(t, bot.ParamsStripped)
}
