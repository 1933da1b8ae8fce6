// Package resultset turns raw driver results into a uniform shape: an
// ordered slice of records keyed by column name, with typed values.
//
// # Algorithm
//
// Normalize walks the columns once to derive record keys and once per row to
// convert values:
//
//   - Columns without a name ("" or Postgres' "?column?") are named "$1",
//     "$2", ... by a counter that starts at 1 for every result and advances
//     left to right over unnamed columns only.
//   - Values in KindTimestamp columns become time.Time, values in KindUUID
//     columns become canonical UUID strings, []byte in KindText columns
//     becomes string.
//   - NULL stays nil. The key is still present in the record.
//   - A result without rows yields an empty, non-nil Records slice.
//
// When two columns share a name the rightmost one wins.
//
// Backends only have to tag their columns with a Kind; the conversion rules
// above live here and are tested against synthetic fixtures.
package resultset

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind tags a column with the type family that drives value conversion.
type Kind int

const (
	KindOther Kind = iota
	KindText
	KindInteger
	KindBool
	KindTimestamp
	KindUUID
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindBool:
		return "bool"
	case KindTimestamp:
		return "timestamp"
	case KindUUID:
		return "uuid"
	default:
		return "other"
	}
}

// Column is the per-column metadata a backend reports.
type Column struct {
	Name string
	Kind Kind
}

// Raw is a driver result before normalization.
type Raw struct {
	Columns []Column
	Rows    [][]any
}

// Record maps a column key to its converted value.
type Record map[string]any

// Result is a normalized result. Columns holds the record keys in column order.
type Result struct {
	Columns []string
	Records []Record
}

// ErrRowWidth is returned when a row does not have one value per column.
var ErrRowWidth = errors.New("row width does not match column count")

// anonymousColumn is what Postgres reports for an unaliased expression.
const anonymousColumn = "?column?"

// Keys derives the record key for every column.
func Keys(columns []Column) []string {
	keys := make([]string, len(columns))
	counter := 0
	for i, c := range columns {
		if c.Name == "" || c.Name == anonymousColumn {
			counter++
			keys[i] = "$" + strconv.Itoa(counter)
			continue
		}
		keys[i] = c.Name
	}
	return keys
}

// Normalize converts raw into a Result.
func Normalize(raw Raw) (Result, error) {
	keys := Keys(raw.Columns)
	records := make([]Record, 0, len(raw.Rows))

	for r, row := range raw.Rows {
		if len(row) != len(raw.Columns) {
			return Result{}, fmt.Errorf("row %d has %d values for %d columns: %w", r, len(row), len(raw.Columns), ErrRowWidth)
		}
		rec := make(Record, len(keys))
		for c, v := range row {
			val, err := convert(raw.Columns[c].Kind, v)
			if err != nil {
				return Result{}, fmt.Errorf("row %d column %q: %w", r, keys[c], err)
			}
			rec[keys[c]] = val
		}
		records = append(records, rec)
	}

	return Result{Columns: keys, Records: records}, nil
}

// First returns the first record, or nil when there is none.
func (r Result) First() Record {
	if len(r.Records) == 0 {
		return nil
	}
	return r.Records[0]
}

// Len returns the number of records.
func (r Result) Len() int {
	return len(r.Records)
}
