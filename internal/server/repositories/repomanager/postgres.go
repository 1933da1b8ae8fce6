package repomanager

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/itemkeeper/internal/dbx"
	"github.com/dmitrijs2005/itemkeeper/internal/server/config"
	"github.com/dmitrijs2005/itemkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/itemkeeper/internal/server/repositories/items"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager serves Postgres and CockroachDB. Repositories
// talk to the pgx pool directly; goose needs a *sql.DB, so migrations run
// over a database/sql view of the same pool.
type PostgresRepositoryManager struct {
	items       *items.PostgresRepository
	migrationDB *sql.DB
}

// NewPostgresRepositoryManager takes ownership of pool and migrationDB.
func NewPostgresRepositoryManager(pool dbx.PgxPool, migrationDB *sql.DB, opts ...items.Option) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{
		items:       items.NewPostgresRepository(pool, opts...),
		migrationDB: migrationDB,
	}
}

func (m *PostgresRepositoryManager) Backend() string {
	return config.BackendPostgres
}

func (m *PostgresRepositoryManager) Items() items.Store {
	return m.items
}

// RunMigrations applies the embedded postgres migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.migrationDB, migrations.PostgresDir); err != nil {
		return err
	}
	return nil
}

func (m *PostgresRepositoryManager) Close() error {
	return errors.Join(m.migrationDB.Close(), m.items.Close())
}
