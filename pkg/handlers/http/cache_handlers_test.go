package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/NeuralTrust/TrustCloak/pkg/app/botcache"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
	visitorMocks "github.com/NeuralTrust/TrustCloak/pkg/domain/visitor/mocks"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAdminApp(cache botcache.Cache, repo visitor.VisitRepository) *fiber.App {
	logger := logrus.New()
	app := fiber.New()
	app.Get("/v1/cache/stats", NewGetCacheStatsHandler(cache).Handle)
	app.Get("/v1/cache/entries", NewListCacheEntriesHandler(cache).Handle)
	app.Get("/v1/cache/entries/:ip", NewGetCacheEntryHandler(cache).Handle)
	app.Post("/v1/cache/entries", NewBanIPHandler(logger, cache).Handle)
	app.Delete("/v1/cache/entries/:ip", NewDeleteCacheEntryHandler(logger, cache).Handle)
	app.Delete("/v1/cache/entries", NewClearCacheHandler(logger, cache).Handle)
	app.Get("/v1/visits", NewListVisitsHandler(logger, repo).Handle)
	app.Get("/v1/version", NewGetVersionHandler(logger).Handle)
	return app
}

func decodeBody(t *testing.T, app *fiber.App, method, path string, body []byte) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestCacheHandlers_BanListGetDelete(t *testing.T) {
	cache := botcache.NewCache(logrus.New(), nil, botcache.Options{})
	app := newAdminApp(cache, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"ip":          "203.0.113.9",
		"reason":      "scraper",
		"trust_level": 10,
		"client_info": map[string]string{"country": "NL"},
	})
	status, out := decodeBody(t, app, "POST", "/v1/cache/entries", body)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "203.0.113.9", out["ip"])
	assert.Equal(t, "BOT", out["classification"])
	assert.Equal(t, "scraper", out["reason"])

	status, out = decodeBody(t, app, "GET", "/v1/cache/entries", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, out["total"])

	status, out = decodeBody(t, app, "GET", "/v1/cache/entries/203.0.113.9", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "NL", out["clientInfo"].(map[string]interface{})["country"])

	status, out = decodeBody(t, app, "GET", "/v1/cache/stats", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, out["totalCached"])

	status, _ = decodeBody(t, app, "DELETE", "/v1/cache/entries/203.0.113.9", nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = decodeBody(t, app, "DELETE", "/v1/cache/entries/203.0.113.9", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = decodeBody(t, app, "GET", "/v1/cache/entries/203.0.113.9", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestBanIPHandler_Validation(t *testing.T) {
	app := newAdminApp(botcache.NewCache(logrus.New(), nil, botcache.Options{}), nil)

	cases := map[string]string{
		"malformed json": `{"ip":`,
		"missing ip":     `{}`,
		"invalid ip":     `{"ip":"not-an-ip"}`,
		"loopback":       `{"ip":"127.0.0.1"}`,
		"trust level":    `{"ip":"203.0.113.1","trust_level":101}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			status, out := decodeBody(t, app, "POST", "/v1/cache/entries", []byte(payload))
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestClearCacheHandler(t *testing.T) {
	cache := botcache.NewCache(logrus.New(), nil, botcache.Options{})
	cache.Put("203.0.113.1", classification.NewBot(classification.SourceLocalHeuristic, "curl"))
	cache.Put("203.0.113.2", classification.NewBot(classification.SourceLocalHeuristic, "curl"))
	app := newAdminApp(cache, nil)

	status, _ := decodeBody(t, app, "DELETE", "/v1/cache/entries", nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	assert.Equal(t, 0, cache.Stats().TotalCached)
}

func TestListVisitsHandler(t *testing.T) {
	repo := new(visitorMocks.VisitRepository)
	repo.On("ListRecent", mock.Anything, 5).Return([]visitor.Visit{{IP: "203.0.113.1"}}, nil)
	repo.On("ListRecent", mock.Anything, defaultVisitsLimit).Return(nil, errors.New("db down"))

	app := newAdminApp(botcache.NewCache(logrus.New(), nil, botcache.Options{}), repo)

	status, out := decodeBody(t, app, "GET", "/v1/visits?limit=5", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, out["total"])

	status, _ = decodeBody(t, app, "GET", "/v1/visits", nil)
	assert.Equal(t, fiber.StatusInternalServerError, status)

	status, _ = decodeBody(t, app, "GET", "/v1/visits?limit=-1", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestListVisitsHandler_Disabled(t *testing.T) {
	app := newAdminApp(botcache.NewCache(logrus.New(), nil, botcache.Options{}), nil)
	status, _ := decodeBody(t, app, "GET", "/v1/visits", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestGetVersionHandler(t *testing.T) {
	app := newAdminApp(botcache.NewCache(logrus.New(), nil, botcache.Options{}), nil)
	status, out := decodeBody(t, app, "GET", "/v1/version", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "TrustCloak", out["app_name"])
}
