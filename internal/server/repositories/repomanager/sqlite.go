package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/itemkeeper/internal/server/config"
	"github.com/dmitrijs2005/itemkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/itemkeeper/internal/server/repositories/items"
	"github.com/pressly/goose/v3"
)

// SQLiteRepositoryManager serves a single SQLite database file.
type SQLiteRepositoryManager struct {
	db    *sql.DB
	items *items.SQLiteRepository
}

// NewSQLiteRepositoryManager takes ownership of db.
func NewSQLiteRepositoryManager(db *sql.DB, opts ...items.Option) *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{db: db, items: items.NewSQLiteRepository(db, opts...)}
}

func (m *SQLiteRepositoryManager) Backend() string {
	return config.BackendSQLite
}

func (m *SQLiteRepositoryManager) Items() items.Store {
	return m.items
}

// RunMigrations applies the embedded sqlite migrations.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, migrations.SQLiteDir)
}

func (m *SQLiteRepositoryManager) Close() error {
	return m.items.Close()
}
