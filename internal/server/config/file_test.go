package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseFile_JSON(t *testing.T) {
	path := writeTemp(t, "cfg.json", `{
		"endpoint_addr_grpc": "127.0.0.1:9000",
		"database_dsn": "postgres://file",
		"token_ttl": "30m",
		"require_active_session": true,
		"rate_limit": 0,
		"rate_limit_window": 60000000000,
		"allowed_origins": ["https://x.example"]
	}`)

	c := defaults()
	require.NoError(t, parseFile(c, []string{"-c", path}))

	assert.Equal(t, "127.0.0.1:9000", c.EndpointAddrGRPC)
	assert.Equal(t, "postgres://file", c.DatabaseDSN)
	assert.Equal(t, 30*time.Minute, c.TokenValidityDuration)
	assert.True(t, c.RequireActiveSession)
	assert.Equal(t, 0, c.RateLimit)
	assert.Equal(t, time.Minute, c.RateLimitWindow)
	assert.Equal(t, []string{"https://x.example"}, c.AllowedOrigins)
	// untouched fields keep their defaults
	assert.Equal(t, ":3111", c.EndpointAddrHTTP)
}

func TestParseFile_YAML(t *testing.T) {
	path := writeTemp(t, "cfg.yaml", `
storage: memory
session_backend: redis
redis_addr: redis:6379
token_ttl: 2h
log_format: text
`)

	c := defaults()
	require.NoError(t, parseFile(c, []string{"--config=" + path}))

	assert.Equal(t, StorageMemory, c.Storage)
	assert.Equal(t, SessionBackendRedis, c.SessionBackend)
	assert.Equal(t, "redis:6379", c.RedisAddr)
	assert.Equal(t, 2*time.Hour, c.TokenValidityDuration)
	assert.Equal(t, "text", c.LogFormat)
}

func TestParseFile_NoFlagIsNoop(t *testing.T) {
	c := defaults()
	require.NoError(t, parseFile(c, []string{"-a", ":1"}))
	assert.Equal(t, defaults(), c)
}

func TestParseFile_BadContent(t *testing.T) {
	path := writeTemp(t, "cfg.json", `{"token_ttl": "forever"}`)
	require.Error(t, parseFile(defaults(), []string{"-c", path}))
}
