package items

import (
	"errors"

	"github.com/dmitrijs2005/itemkeeper/internal/common"
	"github.com/dmitrijs2005/itemkeeper/internal/resultset"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// pgUniqueViolation is SQLSTATE unique_violation.
const pgUniqueViolation = "23505"

// translatePostgresError maps unique_violation to *common.ConstraintViolation
// and returns every other error unchanged.
func translatePostgresError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return err
	}
	msg := pgErr.Detail
	if msg == "" {
		msg = pgErr.Message
	}
	return common.NewConstraintViolation(pgErr.ConstraintName, msg, err)
}

func pgColumns(fields []pgconn.FieldDescription) []resultset.Column {
	cols := make([]resultset.Column, len(fields))
	for i, f := range fields {
		cols[i] = resultset.Column{Name: f.Name, Kind: pgKind(f.DataTypeOID)}
	}
	return cols
}

func pgKind(oid uint32) resultset.Kind {
	switch oid {
	case pgtype.TimestamptzOID, pgtype.TimestampOID, pgtype.DateOID:
		return resultset.KindTimestamp
	case pgtype.UUIDOID:
		return resultset.KindUUID
	case pgtype.TextOID, pgtype.VarcharOID, pgtype.BPCharOID, pgtype.NameOID:
		return resultset.KindText
	case pgtype.Int2OID, pgtype.Int4OID, pgtype.Int8OID:
		return resultset.KindInteger
	case pgtype.BoolOID:
		return resultset.KindBool
	default:
		return resultset.KindOther
	}
}
