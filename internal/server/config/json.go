package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/itemkeeper/internal/flagx"
	"github.com/dmitrijs2005/itemkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// "5s" strings and integer nanoseconds. Empty fields keep the current value.
type JsonConfig struct {
	Backend         string         `json:"backend"`
	PostgresDSN     string         `json:"postgres_dsn"`
	SQLitePath      string         `json:"sqlite_path"`
	HTTPAddr        string         `json:"http_addr"`
	LogLevel        string         `json:"log_level"`
	LogFormat       string         `json:"log_format"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays the file named by -c or -config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.Backend, c.Backend)
	setString(&config.PostgresDSN, c.PostgresDSN)
	setString(&config.SQLitePath, c.SQLitePath)
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
