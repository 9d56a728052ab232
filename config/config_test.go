package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("JWT_SECRET", "  s3cret ")

	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, BMIHistoryBothSupplied, cfg.BMIHistoryPolicy)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.AI.Enabled())
	assert.Equal(t, 20*time.Second, cfg.AI.Timeout)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("AI_API_KEY", "key")
	t.Setenv("AI_TIMEOUT", "not-a-duration")
	t.Setenv("DB_SSL", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("BMI_HISTORY_POLICY", BMIHistoryAnyChange)

	cfg := LoadConfig()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.AI.Enabled())
	assert.Equal(t, 20*time.Second, cfg.AI.Timeout)
	assert.True(t, cfg.Database.UseSSL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, BMIHistoryAnyChange, cfg.BMIHistoryPolicy)
}

func TestLocation(t *testing.T) {
	loc, err := Config{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = Config{Timezone: "UTC"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = Config{Timezone: "Nowhere/Invalid"}.Location()
	assert.Error(t, err)
}
