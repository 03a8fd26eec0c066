package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophsession/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-transport string  grpc or http
//	-g string          gRPC endpoint host:port
//	-a string          base URL of the HTTP API
//	-f string          local database file
//	-t duration        request timeout
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-transport", "-g", "-a", "-f", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "grpc or http")
	fs.StringVar(&cfg.GRPCAddress, "g", cfg.GRPCAddress, "gRPC endpoint host:port")
	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the HTTP API")
	fs.StringVar(&cfg.DatabasePath, "f", cfg.DatabasePath, "local database file")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")

	return fs.Parse(args)
}
