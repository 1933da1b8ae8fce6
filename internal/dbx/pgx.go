package dbx

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxDBTX is the minimal interface shared by *pgxpool.Pool and pgx.Tx.
// Repositories accept this so the same code works inside or outside a
// transaction.
type PgxDBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgxPool is a minimal abstraction over a Postgres connection pool.
// It is implemented by *pgxpool.Pool and pgxmock.PgxPoolIface.
type PgxPool interface {
	PgxDBTX
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// WithPgxTx is the pgx counterpart of WithTx. The pool leases a dedicated
// connection for the transaction; Commit or Rollback hands it back, and
// exactly one of them finishes the transaction on every path.
//
// Rollback runs on a context detached from ctx cancellation so a cancelled
// caller cannot leave the transaction open.
func WithPgxTx(ctx context.Context, pool PgxPool, opts pgx.TxOptions, fn func(ctx context.Context, tx PgxDBTX) error) (err error) {
	tx, err := pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	finished := false
	rollback := func() error {
		if finished {
			return nil
		}
		finished = true
		rbErr := tx.Rollback(context.WithoutCancel(ctx))
		if errors.Is(rbErr, pgx.ErrTxClosed) {
			return nil
		}
		return rbErr
	}

	defer func() {
		if p := recover(); p != nil {
			_ = rollback()
			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		if rbErr := rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		// a failed COMMIT already ended the transaction server-side; the
		// rollback only makes sure the leased connection is given back.
		if rbErr := rollback(); rbErr != nil {
			return fmt.Errorf("commit tx: %w (rollback: %v)", err, rbErr)
		}
		return fmt.Errorf("commit tx: %w", err)
	}
	finished = true
	return nil
}

// WithPgxTxResult is WithPgxTx for units of work that produce a value.
func WithPgxTxResult[T any](ctx context.Context, pool PgxPool, opts pgx.TxOptions, fn func(ctx context.Context, tx PgxDBTX) (T, error)) (T, error) {
	var out T
	err := WithPgxTx(ctx, pool, opts, func(ctx context.Context, tx PgxDBTX) error {
		v, err := fn(ctx, tx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
