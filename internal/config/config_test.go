package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_TYPE", "SHARE_LINK_TTL", "GENERATE_AUDIO", "RATE_LIMIT", "TRUSTED_PROXIES"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, 7*24*time.Hour, cfg.ShareLinkTTL)
	assert.False(t, cfg.GenerateAudio)
	assert.Equal(t, 60, cfg.RateLimit)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("SHARE_LINK_TTL", "48h")
	t.Setenv("GENERATE_AUDIO", "true")
	t.Setenv("RATE_LIMIT", "5")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, ,127.0.0.1")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, 48*time.Hour, cfg.ShareLinkTTL)
	assert.True(t, cfg.GenerateAudio)
	assert.Equal(t, 5, cfg.RateLimit)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
}

func TestLoadFallsBackOnBadValues(t *testing.T) {
	t.Setenv("SHARE_LINK_TTL", "a week")
	t.Setenv("GENERATE_AUDIO", "sometimes")
	t.Setenv("RATE_LIMIT", "lots")

	cfg := Load()

	assert.Equal(t, 7*24*time.Hour, cfg.ShareLinkTTL)
	assert.False(t, cfg.GenerateAudio)
	assert.Equal(t, 60, cfg.RateLimit)
}
