package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/itemkeeper/internal/common"
	"github.com/dmitrijs2005/itemkeeper/internal/dbx"
	"github.com/dmitrijs2005/itemkeeper/internal/resultset"
	"github.com/dmitrijs2005/itemkeeper/internal/server/models"
	"github.com/google/uuid"
)

// SQLiteRepository implements Store over a modernc.org/sqlite database.
type SQLiteRepository struct {
	db        *sql.DB
	clock     *Clock
	closeOnce sync.Once
	closeErr  error
}

// NewSQLiteRepository constructs a repository that owns db.
func NewSQLiteRepository(db *sql.DB, opts ...Option) *SQLiteRepository {
	o := buildOptions(opts)
	return &SQLiteRepository{db: db, clock: o.clock}
}

func querySQLite(ctx context.Context, db dbx.DBTX, statement string, args ...any) (resultset.Result, error) {
	rows, err := db.QueryContext(ctx, statement, args...)
	if err != nil {
		return resultset.Result{}, translateSQLiteError(err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return resultset.Result{}, err
	}

	var data [][]any
	for rows.Next() {
		vals := make([]any, len(types))
		ptrs := make([]any, len(types))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return resultset.Result{}, translateSQLiteError(err)
		}
		data = append(data, vals)
	}
	if err := rows.Err(); err != nil {
		return resultset.Result{}, translateSQLiteError(err)
	}

	return resultset.Normalize(resultset.Raw{
		Columns: sqliteColumns(types),
		Rows:    data,
	})
}

// Query runs statement outside any explicit transaction.
func (r *SQLiteRepository) Query(ctx context.Context, statement string, args ...any) (resultset.Result, error) {
	return querySQLite(ctx, r.db, statement, args...)
}

func (r *SQLiteRepository) GetItems(ctx context.Context) ([]models.Item, error) {
	query := `SELECT ` + selectColumns + ` FROM items ORDER BY name ASC`

	res, err := querySQLite(ctx, r.db, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	return itemsFromResult(res)
}

func (r *SQLiteRepository) FindItem(ctx context.Context, itemID string) (*models.Item, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, nil
	}

	query := `SELECT ` + selectColumns + ` FROM items WHERE itemid = @itemid`

	res, err := querySQLite(ctx, r.db, query, sql.Named("itemid", id.String()))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return singleItem(res)
}

func (r *SQLiteRepository) AddItem(ctx context.Context, item models.NewItem) (*models.Item, error) {
	query := `
		INSERT INTO items (itemid, name, description, updated)
		VALUES (@itemid, @name, @description, @updated)
		RETURNING ` + selectColumns

	args := []any{
		sql.Named("itemid", uuid.New().String()),
		sql.Named("name", item.Name),
		sql.Named("description", item.Description),
		sql.Named("updated", r.clock.Next()),
	}

	res, err := dbx.WithTxResult(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) (resultset.Result, error) {
		return querySQLite(ctx, tx, query, args...)
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

func (r *SQLiteRepository) UpdateItem(ctx context.Context, item models.ItemUpdate) (*models.Item, error) {
	id, err := uuid.Parse(item.ItemID)
	if err != nil {
		return nil, common.ErrorNotFound
	}

	query := `
		UPDATE items
		SET name = @name, description = @description, updated = @updated
		WHERE itemid = @itemid
		RETURNING ` + selectColumns

	args := []any{
		sql.Named("name", item.Name),
		sql.Named("description", item.Description),
		sql.Named("updated", r.clock.Next()),
		sql.Named("itemid", id.String()),
	}

	res, err := dbx.WithTxResult(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) (resultset.Result, error) {
		res, err := querySQLite(ctx, tx, query, args...)
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

func (r *SQLiteRepository) Seed(ctx context.Context) error {
	insert := `INSERT INTO items (itemid, name, description, updated) VALUES (@itemid, @name, @description, @updated)`
	at := r.clock.Next()

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE TRUE`); err != nil {
			return err
		}
		for _, it := range SeedItems(at) {
			_, err := tx.ExecContext(ctx, insert,
				sql.Named("itemid", it.ItemID),
				sql.Named("name", it.Name),
				sql.Named("description", it.Description),
				sql.Named("updated", it.Updated),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed: %w", translateSQLiteError(err))
	}
	return nil
}

// Close closes the database once; later calls return the first result.
func (r *SQLiteRepository) Close() error {
	r.closeOnce.Do(func() {
		r.closeErr = r.db.Close()
	})
	return r.closeErr
}
