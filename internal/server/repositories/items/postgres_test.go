package items

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/dmitrijs2005/itemkeeper/internal/common"
	"github.com/dmitrijs2005/itemkeeper/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 123456000, time.UTC)

func newPostgresMock(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	clock := NewClock(func() time.Time { return fixedNow })
	return NewPostgresRepository(mock, WithClock(clock)), mock
}

func itemColumns() []string {
	return []string{"itemid", "name", "description", "updated"}
}

func TestPostgres_GetItems(t *testing.T) {
	repo, mock := newPostgresMock(t)

	rows := mock.NewRows(itemColumns()).
		AddRow(SeedIDs[0], "A", "This is item A", fixedNow).
		AddRow(SeedIDs[1], "B", "This is item B", fixedNow)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM items ORDER BY name ASC`)).WillReturnRows(rows)

	all, err := repo.GetItems(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, models.Item{ItemID: SeedIDs[0], Name: "A", Description: "This is item A", Updated: fixedNow}, all[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetItemsEmpty(t *testing.T) {
	repo, mock := newPostgresMock(t)

	mock.ExpectQuery(`SELECT`).WillReturnRows(mock.NewRows(itemColumns()))

	all, err := repo.GetItems(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestPostgres_GetItemsDBError(t *testing.T) {
	repo, mock := newPostgresMock(t)

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("conn reset"))

	_, err := repo.GetItems(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conn reset")
}

func TestPostgres_FindItemTypedColumns(t *testing.T) {
	repo, mock := newPostgresMock(t)

	id := uuid.MustParse(SeedIDs[2])
	rows := mock.NewRowsWithColumnDefinition(
		pgconn.FieldDescription{Name: "itemid", DataTypeOID: pgtype.UUIDOID},
		pgconn.FieldDescription{Name: "name", DataTypeOID: pgtype.TextOID},
		pgconn.FieldDescription{Name: "description", DataTypeOID: pgtype.TextOID},
		pgconn.FieldDescription{Name: "updated", DataTypeOID: pgtype.TimestamptzOID},
	).AddRow([16]byte(id), "C", "This is item C", fixedNow.In(time.FixedZone("x", 3600)))

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE itemid = $1`)).
		WithArgs(SeedIDs[2]).
		WillReturnRows(rows)

	it, err := repo.FindItem(context.Background(), "63F04D2C-7B9F-40AC-92AB-1B0FA4F76B6D")
	require.NoError(t, err)
	require.NotNil(t, it)
	assert.Equal(t, SeedIDs[2], it.ItemID)
	assert.Equal(t, "C", it.Name)
	assert.Equal(t, fixedNow, it.Updated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_FindItemAbsent(t *testing.T) {
	repo, mock := newPostgresMock(t)

	mock.ExpectQuery(`WHERE itemid`).WithArgs(SeedIDs[0]).WillReturnRows(mock.NewRows(itemColumns()))

	it, err := repo.FindItem(context.Background(), SeedIDs[0])
	require.NoError(t, err)
	assert.Nil(t, it)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_FindItemMalformedSkipsDB(t *testing.T) {
	repo, mock := newPostgresMock(t)

	it, err := repo.FindItem(context.Background(), "x' OR '1'='1")
	require.NoError(t, err)
	assert.Nil(t, it)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_AddItem(t *testing.T) {
	repo, mock := newPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO items`)).
		WithArgs(pgxmock.AnyArg(), "H", "This is item H", fixedNow).
		WillReturnRows(mock.NewRows(itemColumns()).AddRow("7f1c0f7e-4a51-4b57-9a3a-1b4f2a0d8e11", "H", "This is item H", fixedNow))
	mock.ExpectCommit()

	added, err := repo.AddItem(context.Background(), models.NewItem{Name: "H", Description: "This is item H"})
	require.NoError(t, err)
	assert.Equal(t, "7f1c0f7e-4a51-4b57-9a3a-1b4f2a0d8e11", added.ItemID)
	assert.Equal(t, fixedNow, added.Updated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_AddItemUniqueViolation(t *testing.T) {
	repo, mock := newPostgresMock(t)

	pgErr := &pgconn.PgError{
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "items_name_key"`,
		Detail:         "Key (name)=(A) already exists.",
		ConstraintName: "items_name_key",
	}
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO items`).
		WithArgs(pgxmock.AnyArg(), "A", "", fixedNow).
		WillReturnError(pgErr)
	mock.ExpectRollback()

	_, err := repo.AddItem(context.Background(), models.NewItem{Name: "A"})
	require.Error(t, err)

	var cv *common.ConstraintViolation
	require.True(t, errors.As(err, &cv))
	assert.Equal(t, "items_name_key", cv.Constraint)
	assert.Equal(t, "Key (name)=(A) already exists.", cv.Message)
	assert.ErrorIs(t, err, common.ErrConstraintViolation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateItem(t *testing.T) {
	repo, mock := newPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE items`)).
		WithArgs("A2", "changed", fixedNow, SeedIDs[0]).
		WillReturnRows(mock.NewRows(itemColumns()).AddRow(SeedIDs[0], "A2", "changed", fixedNow))
	mock.ExpectCommit()

	it, err := repo.UpdateItem(context.Background(), models.ItemUpdate{ItemID: SeedIDs[0], Name: "A2", Description: "changed"})
	require.NoError(t, err)
	assert.Equal(t, "A2", it.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateItemNotFoundRollsBack(t *testing.T) {
	repo, mock := newPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE items`).
		WithArgs("x", "", fixedNow, SeedIDs[0]).
		WillReturnRows(mock.NewRows(itemColumns()))
	mock.ExpectRollback()

	_, err := repo.UpdateItem(context.Background(), models.ItemUpdate{ItemID: SeedIDs[0], Name: "x"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateItemMalformedID(t *testing.T) {
	repo, mock := newPostgresMock(t)

	_, err := repo.UpdateItem(context.Background(), models.ItemUpdate{ItemID: "nope", Name: "x"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Seed(t *testing.T) {
	repo, mock := newPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM items WHERE TRUE`)).WillReturnResult(pgxmock.NewResult("DELETE", 3))
	for _, it := range SeedItems(fixedNow) {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO items`)).
			WithArgs(it.ItemID, it.Name, it.Description, fixedNow).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.Seed(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SeedFailureRollsBack(t *testing.T) {
	repo, mock := newPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM items`).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`INSERT INTO items`).
		WithArgs(SeedIDs[0], "A", "This is item A", fixedNow).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Seed(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed: disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_QueryAnonymousColumns(t *testing.T) {
	repo, mock := newPostgresMock(t)

	rows := mock.NewRowsWithColumnDefinition(
		pgconn.FieldDescription{Name: "?column?", DataTypeOID: pgtype.Int4OID},
		pgconn.FieldDescription{Name: "?column?", DataTypeOID: pgtype.TextOID},
	).AddRow(int32(1), "two")
	mock.ExpectQuery(`SELECT 1, 'two'`).WillReturnRows(rows)

	res, err := repo.Query(context.Background(), `SELECT 1, 'two'`)
	require.NoError(t, err)
	assert.Equal(t, []string{"$1", "$2"}, res.Columns)
	assert.Equal(t, int64(1), res.First()["$1"])
	assert.Equal(t, "two", res.First()["$2"])
}

func TestPostgres_Close(t *testing.T) {
	repo, _ := newPostgresMock(t)

	require.NoError(t, repo.Close())
	require.NoError(t, repo.Close())
}

func TestTranslatePostgresError(t *testing.T) {
	other := &pgconn.PgError{Code: "42601", Message: "syntax error"}
	assert.Same(t, error(other), translatePostgresError(other))

	noDetail := &pgconn.PgError{Code: "23505", Message: "duplicate key", ConstraintName: "items_pkey"}
	err := translatePostgresError(noDetail)
	var cv *common.ConstraintViolation
	require.True(t, errors.As(err, &cv))
	assert.Equal(t, "items_pkey", cv.Constraint)
	assert.Equal(t, "duplicate key", cv.Message)
	assert.ErrorIs(t, err, noDetail)
}

func TestPgKind(t *testing.T) {
	tests := []struct {
		oid  uint32
		want string
	}{
		{pgtype.TimestamptzOID, "timestamp"},
		{pgtype.DateOID, "timestamp"},
		{pgtype.UUIDOID, "uuid"},
		{pgtype.VarcharOID, "text"},
		{pgtype.Int8OID, "integer"},
		{pgtype.BoolOID, "bool"},
		{pgtype.JSONBOID, "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pgKind(tt.oid).String())
	}
}
