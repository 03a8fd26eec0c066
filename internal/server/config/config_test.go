package config

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":3111", c.EndpointAddrHTTP)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, StoragePostgres, c.Storage)
	assert.Equal(t, SessionBackendSQL, c.SessionBackend)
	assert.Equal(t, "", c.SecretKey)
	assert.Equal(t, time.Duration(0), c.TokenValidityDuration)
	assert.False(t, c.RequireActiveSession)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, 100, c.RateLimit)
	assert.Equal(t, 15*time.Minute, c.RateLimitWindow)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.NoError(t, c.Validate())
}

func TestLoad_DefaultsOnly(t *testing.T) {
	c, err := Load(context.Background(), nil, envconfig.MapLookuper(nil))
	require.NoError(t, err)

	if diff := cmp.Diff(defaults(), c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTemp(t, "cfg.json", `{
		"endpoint_addr_http": ":7000",
		"storage": "memory",
		"secret_key": "from-file",
		"log_level": "debug"
	}`)

	env := envconfig.MapLookuper(map[string]string{
		"GOPHSESSION_SECRET_KEY": "from-env",
		"GOPHSESSION_LOG_LEVEL":  "warn",
	})

	c, err := Load(context.Background(), []string{"-c", path, "-l", "error"}, env)
	require.NoError(t, err)

	want := defaults()
	want.EndpointAddrHTTP = ":7000"
	want.Storage = StorageMemory
	want.SecretKey = "from-env"
	want.LogLevel = "error"

	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidFails(t *testing.T) {
	_, err := Load(context.Background(), []string{"-m", "floppy"}, envconfig.MapLookuper(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage")
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(context.Background(), []string{"-config", "/does/not/exist.json"}, envconfig.MapLookuper(nil))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"postgres without dsn", func(c *Config) { c.DatabaseDSN = "" }, "database dsn"},
		{"memory without dsn", func(c *Config) { c.Storage = StorageMemory; c.DatabaseDSN = "" }, ""},
		{"unknown backend", func(c *Config) { c.SessionBackend = "etcd" }, "unknown session backend"},
		{"redis without addr", func(c *Config) { c.SessionBackend = SessionBackendRedis; c.RedisAddr = "" }, "redis address"},
		{"no listeners", func(c *Config) { c.EndpointAddrHTTP = ""; c.EndpointAddrGRPC = "" }, "at least one"},
		{"negative ttl", func(c *Config) { c.TokenValidityDuration = -time.Second }, "token validity"},
		{"cost too low", func(c *Config) { c.BcryptCost = 1 }, "bcrypt cost"},
		{"negative limit", func(c *Config) { c.RateLimit = -1 }, "rate limit"},
		{"limit without window", func(c *Config) { c.RateLimitWindow = 0 }, "window"},
		{"limit disabled", func(c *Config) { c.RateLimit = 0; c.RateLimitWindow = 0 }, ""},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			err := c.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
