package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(42), cfg.Dataset.Seed)
	assert.Equal(t, 1000, cfg.Dataset.Count)
	assert.Equal(t, "2023-01-01", cfg.Dataset.Start)
	assert.Equal(t, "2024-12-31", cfg.Dataset.End)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Events.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)

	params, err := cfg.Dataset.Params()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), params.Start)
}

func TestLoadConfig_FileValues(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: 9090
  mode: debug
  read_timeout: 3s
log:
  level: debug
  format: json
dataset:
  seed: 7
  count: 250
  start: "2023-03-01"
  end: "2023-06-30"
rate_limit:
  enabled: false
events:
  enabled: true
  redis_url: redis://cache:6379/1
  channel: admissions
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":9090", cfg.Server.Address())
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, int64(7), cfg.Dataset.Seed)
	assert.Equal(t, 250, cfg.Dataset.Count)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, "redis://cache:6379/1", cfg.Events.RedisURL)
	assert.Equal(t, "admissions", cfg.Events.Channel)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("DASHBOARD_SERVER_PORT", "7070")
	t.Setenv("DASHBOARD_DATASET_COUNT", "50")
	t.Setenv("DASHBOARD_RATE_LIMIT_BURST", "3")
	t.Setenv("DASHBOARD_EVENTS_REDIS_URL", "redis://env:6379/0")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Dataset.Count)
	assert.Equal(t, 3, cfg.RateLimit.Burst)
	assert.Equal(t, "redis://env:6379/0", cfg.Events.RedisURL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad port":      "server:\n  port: 70000\n",
		"bad mode":      "server:\n  mode: turbo\n",
		"zero count":    "dataset:\n  count: 0\n",
		"bad date":      "dataset:\n  start: 01/01/2023\n",
		"reverse range": "dataset:\n  start: \"2024-01-01\"\n  end: \"2023-01-01\"\n",
		"metrics path":  "metrics:\n  path: metrics\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "server: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
