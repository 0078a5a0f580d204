package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaultValues(t *testing.T) {
	var cfg Config
	setDefaultValues(&cfg)

	assert.Equal(t, 8080, cfg.Server.RedirectPort)
	assert.Equal(t, 8081, cfg.Server.AdminPort)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, 5*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, 5, cfg.Classifier.MaxFailures)
	assert.Equal(t, "file", cfg.Cache.Store)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestSetDefaultValues_KeepsExplicit(t *testing.T) {
	cfg := Config{
		Server: ServerConfig{RedirectPort: 80},
		Cache:  CacheConfig{Store: "redis"},
	}
	setDefaultValues(&cfg)
	assert.Equal(t, 80, cfg.Server.RedirectPort)
	assert.Equal(t, "redis", cfg.Cache.Store)
}

func TestLoad(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	yaml := `
redirect:
  human_url: https://human.example.com/landing
  bot_url: https://bot.example.com/
classifier:
  endpoint: https://classify.example.com/v1
  timeout: 2s
cache:
  store: none
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	require.NoError(t, Load(dir))
	cfg := GetConfig()
	assert.Equal(t, "https://human.example.com/landing", cfg.Redirect.HumanURL)
	assert.Equal(t, "https://bot.example.com/", cfg.Redirect.BotURL)
	assert.Equal(t, 2*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, "none", cfg.Cache.Store)
	assert.Equal(t, 8080, cfg.Server.RedirectPort)
}
