// Package migrations embeds the goose SQL migrations for every supported
// dialect. Each dialect lives in its own directory of the embedded FS.
package migrations

import "embed"

// Directories inside Migrations, one per dialect.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS
