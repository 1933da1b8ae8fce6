package items

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/itemkeeper/internal/common"
	"github.com/dmitrijs2005/itemkeeper/internal/dbx"
	"github.com/dmitrijs2005/itemkeeper/internal/resultset"
	"github.com/dmitrijs2005/itemkeeper/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresRepository implements Store over a pgx pool (Postgres or CockroachDB).
type PostgresRepository struct {
	pool      dbx.PgxPool
	clock     *Clock
	closeOnce sync.Once
}

// NewPostgresRepository constructs a repository that owns pool.
func NewPostgresRepository(pool dbx.PgxPool, opts ...Option) *PostgresRepository {
	o := buildOptions(opts)
	return &PostgresRepository{pool: pool, clock: o.clock}
}

// queryPgx runs a statement and normalizes its rows. pgx may defer statement
// errors to rows.Err, so both paths are checked.
func queryPgx(ctx context.Context, db dbx.PgxDBTX, statement string, args ...any) (resultset.Result, error) {
	rows, err := db.Query(ctx, statement, args...)
	if err != nil {
		return resultset.Result{}, translatePostgresError(err)
	}
	defer rows.Close()

	var data [][]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return resultset.Result{}, translatePostgresError(err)
		}
		data = append(data, vals)
	}
	if err := rows.Err(); err != nil {
		return resultset.Result{}, translatePostgresError(err)
	}

	return resultset.Normalize(resultset.Raw{
		Columns: pgColumns(rows.FieldDescriptions()),
		Rows:    data,
	})
}

// Query runs statement on the pool outside any explicit transaction.
func (r *PostgresRepository) Query(ctx context.Context, statement string, args ...any) (resultset.Result, error) {
	return queryPgx(ctx, r.pool, statement, args...)
}

// GetItems returns all items ordered by name.
func (r *PostgresRepository) GetItems(ctx context.Context) ([]models.Item, error) {
	query := `SELECT ` + selectColumns + ` FROM items ORDER BY name ASC`

	res, err := queryPgx(ctx, r.pool, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	return itemsFromResult(res)
}

// FindItem looks an item up by id in a single round trip.
func (r *PostgresRepository) FindItem(ctx context.Context, itemID string) (*models.Item, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, nil
	}

	query := `SELECT ` + selectColumns + ` FROM items WHERE itemid = $1`

	res, err := queryPgx(ctx, r.pool, query, id.String())
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return singleItem(res)
}

// AddItem inserts a new item with a fresh id and timestamp.
func (r *PostgresRepository) AddItem(ctx context.Context, item models.NewItem) (*models.Item, error) {
	query := `
		INSERT INTO items (itemid, name, description, updated)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + selectColumns

	id := uuid.New()
	updated := r.clock.Next()

	res, err := dbx.WithPgxTxResult(ctx, r.pool, pgx.TxOptions{}, func(ctx context.Context, tx dbx.PgxDBTX) (resultset.Result, error) {
		return queryPgx(ctx, tx, query, id.String(), item.Name, item.Description, updated)
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	added, err := singleItem(res)
	if err != nil {
		return nil, err
	}
	if added == nil {
		return nil, errors.New("insert returned no row")
	}
	return added, nil
}

// UpdateItem overwrites name and description and refreshes updated.
func (r *PostgresRepository) UpdateItem(ctx context.Context, item models.ItemUpdate) (*models.Item, error) {
	id, err := uuid.Parse(item.ItemID)
	if err != nil {
		return nil, common.ErrorNotFound
	}

	query := `
		UPDATE items
		SET name = $1, description = $2, updated = $3
		WHERE itemid = $4
		RETURNING ` + selectColumns

	updated := r.clock.Next()

	res, err := dbx.WithPgxTxResult(ctx, r.pool, pgx.TxOptions{}, func(ctx context.Context, tx dbx.PgxDBTX) (resultset.Result, error) {
		res, err := queryPgx(ctx, tx, query, item.Name, item.Description, updated, id.String())
		if err != nil {
			return res, err
		}
		if res.Len() == 0 {
			return res, common.ErrorNotFound
		}
		return res, nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return singleItem(res)
}

// Seed deletes every row and inserts the fixture set in one transaction.
func (r *PostgresRepository) Seed(ctx context.Context) error {
	insert := `INSERT INTO items (itemid, name, description, updated) VALUES ($1, $2, $3, $4)`
	at := r.clock.Next()

	err := dbx.WithPgxTx(ctx, r.pool, pgx.TxOptions{}, func(ctx context.Context, tx dbx.PgxDBTX) error {
		if _, err := tx.Exec(ctx, `DELETE FROM items WHERE TRUE`); err != nil {
			return err
		}
		for _, it := range SeedItems(at) {
			if _, err := tx.Exec(ctx, insert, it.ItemID, it.Name, it.Description, it.Updated); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed: %w", translatePostgresError(err))
	}
	return nil
}

// Close closes the pool once.
func (r *PostgresRepository) Close() error {
	r.closeOnce.Do(r.pool.Close)
	return nil
}
