package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophsession/internal/flagx"
	"github.com/dmitrijs2005/gophsession/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so the timeout can be "5s" or integer nanoseconds.
type JsonConfig struct {
	Transport      string         `json:"transport"`
	GRPCAddress    string         `json:"grpc_address"`
	ServerURL      string         `json:"server_url"`
	DatabasePath   string         `json:"database_path"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with the file named by -c or -config. Empty
// fields keep their current values.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	if jc.Transport != "" {
		cfg.Transport = jc.Transport
	}
	if jc.GRPCAddress != "" {
		cfg.GRPCAddress = jc.GRPCAddress
	}
	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}
