package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsTimeDuration(t *testing.T) {
	t.Setenv("TEST_DURATION_GO", "90s")
	t.Setenv("TEST_DURATION_SECONDS", "15")
	t.Setenv("TEST_DURATION_BAD", "soon")

	assert.Equal(t, 90*time.Second, getEnvAsTimeDuration("TEST_DURATION_GO", time.Minute))
	assert.Equal(t, 15*time.Second, getEnvAsTimeDuration("TEST_DURATION_SECONDS", time.Minute))
	assert.Equal(t, time.Minute, getEnvAsTimeDuration("TEST_DURATION_BAD", time.Minute))
	assert.Equal(t, time.Minute, getEnvAsTimeDuration("TEST_DURATION_UNSET", time.Minute))
}

func TestGetEnvScalars(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "forty")
	t.Setenv("TEST_BOOL", "false")
	t.Setenv("TEST_BLANK", "   ")

	assert.Equal(t, 42, getEnvAsInt("TEST_INT", 1))
	assert.Equal(t, 1, getEnvAsInt("TEST_INT_BAD", 1))
	assert.False(t, getEnvAsBool("TEST_BOOL", true))
	assert.Equal(t, "fallback", getEnvAsString("TEST_BLANK", "fallback"), "blank values count as unset")
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("TEST_ORIGINS", " https://a.test, ,https://b.test ")

	assert.Equal(t, []string{"https://a.test", "https://b.test"}, getEnvAsSlice("TEST_ORIGINS", nil))
	assert.Equal(t, []string{"x"}, getEnvAsSlice("TEST_ORIGINS_UNSET", []string{"x"}))
}

func TestLoad(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("API_BASE_PATH", "/api/v2")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("AUTH_ACCESS_TOKEN_EXPIRY", "30m")

	cfg := Load()
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "/api/v2", cfg.Server.BasePath)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenExpiry)
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Contains(t, cfg.Cors.AllowHeaders, "X-CSRF-Token")
}
