package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Environment variables read by parseEnv.
const (
	EnvBackend         = "ITEMS_BACKEND"
	EnvDatabaseURL     = "ITEMS_DATABASE_URL"
	EnvSQLitePath      = "ITEMS_SQLITE_PATH"
	EnvHTTPAddr        = "ITEMS_HTTP_ADDR"
	EnvLogLevel        = "ITEMS_LOG_LEVEL"
	EnvLogFormat       = "ITEMS_LOG_FORMAT"
	EnvShutdownTimeout = "ITEMS_SHUTDOWN_TIMEOUT"

	EnvCockroachHost     = "DB_COCKROACH_HOST"
	EnvCockroachPort     = "DB_COCKROACH_PORT"
	EnvCockroachUser     = "DB_COCKROACH_USER"
	EnvCockroachPassword = "DB_COCKROACH_PASSWORD"
	EnvCockroachDatabase = "DB_COCKROACH_DATABASE"
	EnvCockroachCert     = "DB_COCKROACH_CERT"
)

// parseEnv overlays environment variables. When DB_COCKROACH_HOST is set the
// DB_COCKROACH_* pieces are assembled into PostgresDSN; ITEMS_DATABASE_URL
// takes precedence over them.
// Empty variables count as unset.
func parseEnv(config *Config) error {
	v := viper.New()
	v.AutomaticEnv()

	if v.IsSet(EnvBackend) {
		config.Backend = strings.ToLower(v.GetString(EnvBackend))
	}
	if v.IsSet(EnvSQLitePath) {
		config.SQLitePath = v.GetString(EnvSQLitePath)
	}
	if v.IsSet(EnvHTTPAddr) {
		config.HTTPAddr = v.GetString(EnvHTTPAddr)
	}
	if v.IsSet(EnvLogLevel) {
		config.LogLevel = v.GetString(EnvLogLevel)
	}
	if v.IsSet(EnvLogFormat) {
		config.LogFormat = v.GetString(EnvLogFormat)
	}
	if v.IsSet(EnvShutdownTimeout) {
		d, err := parseDurationValue(v.GetString(EnvShutdownTimeout))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvShutdownTimeout, err)
		}
		config.ShutdownTimeout = d
	}

	if v.IsSet(EnvCockroachHost) {
		config.PostgresDSN = cockroachDSN(v)
	}
	if v.IsSet(EnvDatabaseURL) {
		config.PostgresDSN = v.GetString(EnvDatabaseURL)
	}
	return nil
}

// cockroachDSN builds a pgx URL. A root certificate path switches TLS
// verification on; without one the connection is unencrypted.
func cockroachDSN(v *viper.Viper) string {
	port := v.GetString(EnvCockroachPort)
	if port == "" {
		port = "26257"
	}

	u := url.URL{
		Scheme: "postgresql",
		Host:   net.JoinHostPort(v.GetString(EnvCockroachHost), port),
		Path:   "/" + v.GetString(EnvCockroachDatabase),
	}
	if user := v.GetString(EnvCockroachUser); user != "" {
		if pw := v.GetString(EnvCockroachPassword); pw != "" {
			u.User = url.UserPassword(user, pw)
		} else {
			u.User = url.User(user)
		}
	}

	q := url.Values{}
	if cert := v.GetString(EnvCockroachCert); cert != "" {
		q.Set("sslmode", "verify-full")
		q.Set("sslrootcert", cert)
	} else {
		q.Set("sslmode", "disable")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
