package items

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/itemkeeper/internal/common"
	"github.com/dmitrijs2005/itemkeeper/internal/resultset"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// translateSQLiteError maps UNIQUE and PRIMARY KEY failures to
// *common.ConstraintViolation and returns every other error unchanged.
func translateSQLiteError(err error) error {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return err
	}
	switch sqlErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
	default:
		return err
	}
	msg := sqlErr.Error()
	return common.NewConstraintViolation(sqliteConstraintName(msg), msg, err)
}

// sqliteConstraintName extracts "items.name" from messages like
// "constraint failed: UNIQUE constraint failed: items.name (2067)".
func sqliteConstraintName(msg string) string {
	const marker = "constraint failed: "
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return ""
	}
	name := msg[i+len(marker):]
	if j := strings.Index(name, " ("); j >= 0 {
		name = name[:j]
	}
	return strings.TrimSpace(name)
}

func sqliteColumns(types []*sql.ColumnType) []resultset.Column {
	cols := make([]resultset.Column, len(types))
	for i, ct := range types {
		cols[i] = resultset.Column{Name: ct.Name(), Kind: sqliteKind(ct.DatabaseTypeName())}
	}
	return cols
}

// sqliteKind follows SQLite's declared-type affinity rules loosely.
func sqliteKind(declared string) resultset.Kind {
	t := strings.ToUpper(declared)
	switch {
	case strings.Contains(t, "TIME"), strings.Contains(t, "DATE"):
		return resultset.KindTimestamp
	case strings.Contains(t, "INT"):
		return resultset.KindInteger
	case strings.Contains(t, "BOOL"):
		return resultset.KindBool
	case strings.Contains(t, "TEXT"), strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"):
		return resultset.KindText
	default:
		return resultset.KindOther
	}
}
