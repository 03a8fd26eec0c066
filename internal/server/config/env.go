package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// EnvPrefix is prepended to every variable in envConfig.
const EnvPrefix = "GOPHSESSION_"

// envConfig mirrors Config for environment variables. Pointers tell an
// unset variable from an explicit zero.
type envConfig struct {
	EndpointAddrHTTP      *string        `env:"HTTP_ADDR,noinit"`
	EndpointAddrGRPC      *string        `env:"GRPC_ADDR,noinit"`
	Storage               *string        `env:"STORAGE,noinit"`
	DatabaseDSN           *string        `env:"DATABASE_DSN,noinit"`
	SessionBackend        *string        `env:"SESSION_BACKEND,noinit"`
	RedisAddr             *string        `env:"REDIS_ADDR,noinit"`
	RedisPrefix           *string        `env:"REDIS_PREFIX,noinit"`
	SecretKey             *string        `env:"SECRET_KEY,noinit"`
	TokenValidityDuration *time.Duration `env:"TOKEN_TTL,noinit"`
	RequireActiveSession  *bool          `env:"REQUIRE_ACTIVE_SESSION,noinit"`
	BcryptCost            *int           `env:"BCRYPT_COST,noinit"`
	RateLimit             *int           `env:"RATE_LIMIT,noinit"`
	RateLimitWindow       *time.Duration `env:"RATE_LIMIT_WINDOW,noinit"`
	AllowedOrigins        []string       `env:"ALLOWED_ORIGINS"`
	LogLevel              *string        `env:"LOG_LEVEL,noinit"`
	LogFormat             *string        `env:"LOG_FORMAT,noinit"`
	NatsURL               *string        `env:"NATS_URL,noinit"`
	OTLPEndpoint          *string        `env:"OTLP_ENDPOINT,noinit"`
}

// plainEnv holds the unprefixed names conventional for this kind of
// service. Prefixed variables win over them.
type plainEnv struct {
	JWTSecret    *string `env:"JWT_SECRET,noinit"`
	Port         *string `env:"PORT,noinit"`
	DatabaseURL  *string `env:"DATABASE_URL,noinit"`
	OTLPEndpoint *string `env:"OTEL_EXPORTER_OTLP_ENDPOINT,noinit"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func parseEnv(ctx context.Context, config *Config, l envconfig.Lookuper) error {
	var plain plainEnv
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &plain, Lookuper: l}); err != nil {
		return err
	}

	set(&config.SecretKey, plain.JWTSecret)
	set(&config.DatabaseDSN, plain.DatabaseURL)
	set(&config.OTLPEndpoint, plain.OTLPEndpoint)
	if plain.Port != nil {
		config.EndpointAddrHTTP = ":" + *plain.Port
	}

	var e envConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &e,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, l),
	}); err != nil {
		return err
	}

	set(&config.EndpointAddrHTTP, e.EndpointAddrHTTP)
	set(&config.EndpointAddrGRPC, e.EndpointAddrGRPC)
	set(&config.Storage, e.Storage)
	set(&config.DatabaseDSN, e.DatabaseDSN)
	set(&config.SessionBackend, e.SessionBackend)
	set(&config.RedisAddr, e.RedisAddr)
	set(&config.RedisPrefix, e.RedisPrefix)
	set(&config.SecretKey, e.SecretKey)
	set(&config.TokenValidityDuration, e.TokenValidityDuration)
	set(&config.RequireActiveSession, e.RequireActiveSession)
	set(&config.BcryptCost, e.BcryptCost)
	set(&config.RateLimit, e.RateLimit)
	set(&config.RateLimitWindow, e.RateLimitWindow)
	if len(e.AllowedOrigins) > 0 {
		config.AllowedOrigins = e.AllowedOrigins
	}
	set(&config.LogLevel, e.LogLevel)
	set(&config.LogFormat, e.LogFormat)
	set(&config.NatsURL, e.NatsURL)
	set(&config.OTLPEndpoint, e.OTLPEndpoint)

	return nil
}
