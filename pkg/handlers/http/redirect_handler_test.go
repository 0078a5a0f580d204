package http

import (
	"io"
	"net/http/httptest"
	"testing"

	decisionMocks "github.com/NeuralTrust/TrustCloak/pkg/app/decision/mocks"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const fallbackURL = "https://human.example.com/landing"

func newRedirectApp(orchestrator *decisionMocks.Orchestrator) *fiber.App {
	app := fiber.New()
	handler := NewRedirectHandler(logrus.New(), orchestrator, fallbackURL)
	app.Get("/*", handler.Handle)
	return app
}

func TestRedirectHandler_RedirectsToDecision(t *testing.T) {
	orchestrator := new(decisionMocks.Orchestrator)
	orchestrator.On("Decide", mock.Anything, mock.MatchedBy(func(req visitor.Request) bool {
		return req.IP == "203.0.113.7" &&
			req.UserAgent == "Mozilla/5.0" &&
			req.Query == "email=jane@example.com" &&
			req.AcceptLanguage == "en-US" &&
			req.RequestID != ""
	})).Return(visitor.Decision{
		Destination: "https://human.example.com/landing?email=jane@example.com",
		Verdict:     classification.NewHuman(classification.SourceDefault, "no signal"),
	})

	req := httptest.NewRequest("GET", "/go?email=jane@example.com", nil)
	req.Header.Set("X-Real-IP", "203.0.113.7")
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept-Language", "en-US")

	resp, err := newRedirectApp(orchestrator).Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://human.example.com/landing?email=jane@example.com", resp.Header.Get("Location"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body)
	orchestrator.AssertExpectations(t)
}

func TestRedirectHandler_KeepsInboundRequestID(t *testing.T) {
	orchestrator := new(decisionMocks.Orchestrator)
	orchestrator.On("Decide", mock.Anything, mock.MatchedBy(func(req visitor.Request) bool {
		return req.RequestID == "req-42"
	})).Return(visitor.Decision{Destination: "https://bot.example.com/"})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := newRedirectApp(orchestrator).Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "https://bot.example.com/", resp.Header.Get("Location"))
}

func TestRedirectHandler_EmptyDestinationFallsBack(t *testing.T) {
	orchestrator := new(decisionMocks.Orchestrator)
	orchestrator.On("Decide", mock.Anything, mock.Anything).Return(visitor.Decision{})

	resp, err := newRedirectApp(orchestrator).Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, fallbackURL, resp.Header.Get("Location"))
}

func TestRedirectHandler_PanicRedirectsToFallback(t *testing.T) {
	orchestrator := new(decisionMocks.Orchestrator)
	orchestrator.On("Decide", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("boom")
	}).Return(visitor.Decision{})

	resp, err := newRedirectApp(orchestrator).Test(httptest.NewRequest("GET", "/x", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, fallbackURL, resp.Header.Get("Location"))
}

func TestClientIP_HeaderPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"real ip wins", map[string]string{"X-Real-IP": "198.51.100.1", "X-Forwarded-For": "198.51.100.2"}, "198.51.100.1"},
		{"first forwarded entry", map[string]string{"X-Forwarded-For": "198.51.100.2, 10.0.0.1"}, "198.51.100.2"},
		{"original forwarded", map[string]string{"X-Original-Forwarded-For": "198.51.100.3"}, "198.51.100.3"},
		{"true client ip", map[string]string{"True-Client-IP": "2001:db8::1"}, "2001:db8::1"},
		{"cloudflare", map[string]string{"CF-Connecting-IP": "198.51.100.4"}, "198.51.100.4"},
		{"host and port", map[string]string{"X-Real-IP": "198.51.100.5:4321"}, "198.51.100.5"},
		{"garbage skipped", map[string]string{"X-Real-IP": "unknown", "CF-Connecting-IP": "198.51.100.6"}, "198.51.100.6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			var got string
			app.Get("/", func(c *fiber.Ctx) error {
				got = ClientIP(c)
				return nil
			})
			req := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			_, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
