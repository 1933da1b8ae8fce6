// Package repomanager selects the storage backend named in the config,
// bootstraps its schema with goose and vends the items repository bound to it.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/itemkeeper/internal/common"
	"github.com/dmitrijs2005/itemkeeper/internal/dbx"
	"github.com/dmitrijs2005/itemkeeper/internal/server/config"
	"github.com/dmitrijs2005/itemkeeper/internal/server/repositories/items"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	// Backend names the active backend, one of the config.Backend* values.
	Backend() string
	RunMigrations(ctx context.Context) error
	Items() items.Store
	// Close releases every connection the manager owns.
	Close() error
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Open connects to the backend selected by cfg. Migrations are not run;
// call RunMigrations on the result.
func Open(ctx context.Context, cfg *config.Config, opts ...items.Option) (RepositoryManager, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		pool, err := dbx.OpenPgxPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return NewPostgresRepositoryManager(pool, stdlib.OpenDBFromPool(pool), opts...), nil
	case config.BackendSQLite:
		db, err := dbx.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return NewSQLiteRepositoryManager(db, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownBackend, cfg.Backend)
	}
}
