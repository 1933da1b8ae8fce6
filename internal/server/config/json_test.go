package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"backend":          "postgres",
		"postgres_dsn":     "postgres://u:p@db:5432/items",
		"sqlite_path":      "/var/lib/items.db",
		"http_addr":        "0.0.0.0:80",
		"log_level":        "warn",
		"log_format":       "json",
		"shutdown_timeout": 2000000000,
	})

	t.Run("loads every field", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, parseJson(c, []string{"-config", path}))

		assert.Equal(t, &Config{
			Backend:         "postgres",
			PostgresDSN:     "postgres://u:p@db:5432/items",
			SQLitePath:      "/var/lib/items.db",
			HTTPAddr:        "0.0.0.0:80",
			LogLevel:        "warn",
			LogFormat:       "json",
			ShutdownTimeout: 2 * time.Second,
		}, c)
	})

	t.Run("no config flag leaves config alone", func(t *testing.T) {
		c := defaults()
		require.NoError(t, parseJson(c, []string{"-b", "postgres"}))
		assert.Equal(t, defaults(), c)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, map[string]any{"http_addr": ":1234"})

		c := defaults()
		require.NoError(t, parseJson(c, []string{"-c", partial}))
		assert.Equal(t, ":1234", c.HTTPAddr)
		assert.Equal(t, BackendSQLite, c.Backend)
		assert.Equal(t, 5*time.Second, c.ShutdownTimeout)
	})

	t.Run("bad duration", func(t *testing.T) {
		bad := writeTempJSON(t, map[string]any{"shutdown_timeout": "later"})
		require.Error(t, parseJson(defaults(), []string{"-c", bad}))
	})
}
