package dbx

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "dbx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS t (id INTEGER PRIMARY KEY, v TEXT UNIQUE);`)
	require.NoError(t, err)
	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
	return n
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('ok')`)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 1, countRows(t, db), "must commit on success")
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db := setupDB(t)

	boom := errors.New("boom")
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('fail')`)
		require.NoError(t, e)
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.Equal(t, 0, countRows(t, db), "must rollback when fn returns error")
}

func TestWithTx_RollbackOnStatementError(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('dup')`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('dup')`)
		return err
	})
	require.Error(t, err)
	require.Equal(t, 0, countRows(t, db), "first insert must not survive")
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.Equal(t, 0, countRows(t, db), "must rollback on panic")
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('panic')`)
		require.NoError(t, e)
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err, "begin should fail when DB is closed")
	assert.False(t, called)
}

func TestWithTx_ReleasesConnectionOnEveryPath(t *testing.T) {
	db := setupDB(t)
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_ = WithTx(ctx, db, nil, func(ctx context.Context, tx DBTX) error {
			return errors.New("fail")
		})
		require.NoError(t, WithTx(ctx, db, nil, func(ctx context.Context, tx DBTX) error { return nil }))
	}

	// with a single connection any leak would block here
	require.Equal(t, 0, countRows(t, db))
	assert.Equal(t, 0, db.Stats().InUse)
}

func TestWithTx_CommitError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO t`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('x')`)
		return err
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit tx: commit failed")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_FnErrorRollsBackOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return errors.New("nope")
	})
	require.EqualError(t, err, "nope")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxResult(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	id, err := WithTxResult(ctx, db, nil, func(ctx context.Context, tx DBTX) (int64, error) {
		res, err := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('r')`)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	v, err := WithTxResult(ctx, db, nil, func(ctx context.Context, tx DBTX) (int64, error) {
		return 42, errors.New("discarded")
	})
	require.Error(t, err)
	assert.Equal(t, int64(0), v, "value must not leak from a rolled back tx")
}
