// Package items provides the item repositories: one contract, implemented
// once over Postgres/CockroachDB (pgx) and once over SQLite (database/sql).
//
// # Backends
//
// Both implementations build parameterized statements in their dialect
// ($n for pgx, @name for SQLite), run mutations through a dbx transaction
// runner, translate uniqueness failures into *common.ConstraintViolation and
// shape every result through package resultset before mapping it to
// models.Item. Callers cannot tell the backends apart.
//
// # Timestamps
//
// Updated is assigned from a per-repository monotonic Clock on every write,
// so successive mutations through one repository always move it forward.
package items

import (
	"context"

	"github.com/dmitrijs2005/itemkeeper/internal/resultset"
	"github.com/dmitrijs2005/itemkeeper/internal/server/models"
)

// Repository is the backend-agnostic items contract.
type Repository interface {
	// GetItems returns every item ordered by name.
	GetItems(ctx context.Context) ([]models.Item, error)

	// FindItem returns the item with itemID, or (nil, nil) when there is none.
	// Malformed ids are reported as absent.
	FindItem(ctx context.Context, itemID string) (*models.Item, error)

	// AddItem mints an id and timestamp and persists the item. A duplicate
	// name fails with *common.ConstraintViolation.
	AddItem(ctx context.Context, item models.NewItem) (*models.Item, error)

	// UpdateItem overwrites name and description and refreshes Updated.
	// A missing id fails with common.ErrorNotFound.
	UpdateItem(ctx context.Context, item models.ItemUpdate) (*models.Item, error)

	// Close releases the underlying pool. Calling it more than once is safe.
	Close() error
}

// Maintenance is the raw access used by tests and the admin CLI.
type Maintenance interface {
	// Query runs statement with args and returns the normalized rows.
	Query(ctx context.Context, statement string, args ...any) (resultset.Result, error)

	// Seed replaces all rows with the fixture set in one transaction.
	Seed(ctx context.Context) error
}

// Store is a Repository with maintenance access.
type Store interface {
	Repository
	Maintenance
}

const selectColumns = `itemid, name, description, updated`
