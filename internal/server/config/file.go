package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophsession/internal/flagx"
	"github.com/dmitrijs2005/gophsession/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. It uses
// timex.Duration for interval fields, which accepts both strings such as
// "15m" and integer nanoseconds. Zero values leave the defaults in place.
type FileConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrGRPC      string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	Storage               string         `json:"storage" yaml:"storage"`
	DatabaseDSN           string         `json:"database_dsn" yaml:"database_dsn"`
	SessionBackend        string         `json:"session_backend" yaml:"session_backend"`
	RedisAddr             string         `json:"redis_addr" yaml:"redis_addr"`
	RedisPrefix           string         `json:"redis_prefix" yaml:"redis_prefix"`
	SecretKey             string         `json:"secret_key" yaml:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_ttl" yaml:"token_ttl"`
	RequireActiveSession  *bool          `json:"require_active_session" yaml:"require_active_session"`
	BcryptCost            int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	RateLimit             *int           `json:"rate_limit" yaml:"rate_limit"`
	RateLimitWindow       timex.Duration `json:"rate_limit_window" yaml:"rate_limit_window"`
	AllowedOrigins        []string       `json:"allowed_origins" yaml:"allowed_origins"`
	LogLevel              string         `json:"log_level" yaml:"log_level"`
	LogFormat             string         `json:"log_format" yaml:"log_format"`
	NatsURL               string         `json:"nats_url" yaml:"nats_url"`
	OTLPEndpoint          string         `json:"otlp_endpoint" yaml:"otlp_endpoint"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// decodeFile picks YAML for .yaml and .yml files and JSON otherwise.
func decodeFile(path string, data []byte, c *FileConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, c)
	default:
		return json.Unmarshal(data, c)
	}
}

// parseFile loads the file named by -c or -config in args into config.
// Nothing happens when neither flag is present.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFile(args)

	// nothing to load
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &FileConfig{}
	if err := decodeFile(path, data, c); err != nil {
		return err
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.Storage, c.Storage)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SessionBackend, c.SessionBackend)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPrefix, c.RedisPrefix)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	set(&config.RequireActiveSession, c.RequireActiveSession)
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	set(&config.RateLimit, c.RateLimit)
	if c.RateLimitWindow.Duration != 0 {
		config.RateLimitWindow = c.RateLimitWindow.Duration
	}
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.NatsURL, c.NatsURL)
	setString(&config.OTLPEndpoint, c.OTLPEndpoint)

	return nil
}
