package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseKeyValues(t *testing.T) {
	got := parseKeyValues(" bot1=ABC , bot2 = def,broken, =x,dashboard=")
	assert.Equal(t, map[string]string{"bot1": "abc", "bot2": "def"}, got)
	assert.Empty(t, parseKeyValues(""))
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, 5*time.Minute, parseDuration("5m", time.Hour))
	assert.Equal(t, time.Hour, parseDuration("soon", time.Hour))
	assert.Equal(t, time.Hour, parseDuration("", time.Hour))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVICE_TOKENS", "bot2=deadbeef")
	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "default", cfg.Analytics.DefaultCampaign)
	assert.Equal(t, "deadbeef", cfg.Services.Tokens["bot2"])
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
}
