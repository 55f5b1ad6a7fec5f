package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunaaoguzhann/expiring-media/core"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, core.DefaultTTL, cfg.TTL)
	assert.Equal(t, core.DailySweepSpec, cfg.SweepSchedule)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
port: 9090
ttl: 2m
sweep_schedule: "30 2 * * *"
rate_limit: 5
rate_window: 10m
`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.TTL)
	assert.Equal(t, "30 2 * * *", cfg.SweepSchedule)
	assert.Equal(t, 5, cfg.RateLimit)
	assert.Equal(t, 10*time.Minute, cfg.RateWindow)
	assert.Equal(t, "dev-hmac-secret-change-me", cfg.HMACSecret)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("MEDIA_TTL_SECONDS", "30")
	t.Setenv("MEDIA_HMAC_SECRET", "from-env")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_KEY_PREFIX", "media-rate-eu:")

	cfg, err := loadConfig(writeConfig(t, "port: 9090\n"))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.TTL)
	assert.Equal(t, "from-env", cfg.HMACSecret)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "media-rate-eu:", cfg.RedisPrefix)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := loadConfig(writeConfig(t, "port: 0\nttl: -1s\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
	assert.Contains(t, err.Error(), "ttl")

	_, err = loadConfig(writeConfig(t, "rate_limit: 1\nrate_window: -1s\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_window")

	_, err = loadConfig(writeConfig(t, "rate_limit: 0\nrate_window: 0s\n"))
	assert.NoError(t, err)

	_, err = loadConfig(writeConfig(t, "port: [\n"))
	assert.Error(t, err)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
