package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophsession/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":3111")
//	-g string     gRPC bind address (e.g., ":50051")
//	-m string     storage, postgres or memory
//	-d string     PostgreSQL DSN
//	-b string     session backend, sql or redis
//	-r string     Redis address
//	-s string     JWT HMAC secret key
//	-t duration   token validity, 0 for no expiry
//	-l string     log level
//
// The function first filters args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the config file flags.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-m", "-d", "-b", "-r", "-s", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port to run server")
	fs.StringVar(&config.Storage, "m", config.Storage, "storage: postgres or memory")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SessionBackend, "b", config.SessionBackend, "session backend: sql or redis")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.TokenValidityDuration, "t", config.TokenValidityDuration, "token validity, 0 for no expiry")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	return fs.Parse(args)
}
