package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dmitrijs2005/itemkeeper/internal/flagx"
)

// parseFlags overlays the short flags this package owns.
//
//	-b string   backend ("postgres" or "sqlite")
//	-d string   postgres DSN
//	-s string   sqlite database path
//	-a string   HTTP bind address (e.g. ":8080")
//	-l string   log level
//	-f string   log format ("text" or "json")
//	-t string   shutdown timeout ("10s", or seconds as an integer)
//
// Other arguments are ignored.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-b", "-d", "-s", "-a", "-l", "-f", "-t"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.Backend, "b", config.Backend, "storage backend")
	fs.StringVar(&config.PostgresDSN, "d", config.PostgresDSN, "postgres DSN")
	fs.StringVar(&config.SQLitePath, "s", config.SQLitePath, "sqlite database path")
	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")
	timeout := fs.String("t", config.ShutdownTimeout.String(), "shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	d, err := parseDurationValue(*timeout)
	if err != nil {
		return fmt.Errorf("-t: %w", err)
	}
	config.ShutdownTimeout = d
	return nil
}

// parseDurationValue accepts time.ParseDuration syntax or whole seconds.
func parseDurationValue(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}
