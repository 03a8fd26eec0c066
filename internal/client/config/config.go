// Package config handles configuration for the CLI: defaults, an optional
// JSON file and command-line flags, later sources winning.
package config

import (
	"fmt"
	"os"
	"time"
)

// Transports the CLI can talk to the server over.
const (
	TransportGRPC = "grpc"
	TransportHTTP = "http"
)

// Config holds runtime settings for the gophsession CLI.
//
// Fields:
//   - Transport: "grpc" or "http".
//   - GRPCAddress: host:port of the gRPC endpoint.
//   - ServerURL: base URL of the HTTP API.
//   - DatabasePath: SQLite file that keeps the current token.
//   - RequestTimeout: per-request deadline.
type Config struct {
	Transport      string
	GRPCAddress    string
	ServerURL      string
	DatabasePath   string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Transport = TransportGRPC
	c.GRPCAddress = "127.0.0.1:50051"
	c.ServerURL = "http://127.0.0.1:3111"
	c.DatabasePath = "gophsession.db"
	c.RequestTimeout = 10 * time.Second
}

// Validate rejects an unknown transport.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportGRPC, TransportHTTP:
		return nil
	default:
		return fmt.Errorf("unknown transport %q, want %q or %q", c.Transport, TransportGRPC, TransportHTTP)
	}
}

// Load applies defaults, then the JSON file named by -c/-config in args,
// then flags.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
