package table

import (
	"reflect"

	"github.com/Neumenon/coltab/value"
)

// ============================================================
// Table Encoder
// ============================================================
//
// A table is an object with two entries:
//
//   {"columns": ["id", "name", "role"],
//    "rows":    [[1, "Alice", "admin"],
//                [2, "Bob", "user"]]}
//
// Columns follow schema order; each row holds one cell per column.

// Encode converts records to a table value. It never fails: every field
// codec was resolved when the schema was built. An empty input yields the
// columns and no rows. records is not modified and shares no memory with
// the result.
func (s *Schema[R]) Encode(records []R) *value.Value {
	rows := make([]*value.Value, 0, len(records))
	for i := range records {
		rv := reflect.ValueOf(&records[i]).Elem()
		cells := make([]*value.Value, len(s.cols))
		for j := range s.cols {
			c := &s.cols[j]
			cells[j] = c.codec.write(rv.FieldByIndex(c.index))
		}
		rows = append(rows, value.Array(cells...))
	}
	return newTable(s.names, rows)
}

// Encode converts records to a table value using the shared schema of R.
// The error is non-nil only if R has no valid schema.
func Encode[R any](records []R) (*value.Value, error) {
	s, err := For[R]()
	if err != nil {
		return nil, err
	}
	return s.Encode(records), nil
}

func newTable(names []string, rows []*value.Value) *value.Value {
	return value.Object(
		value.Field("columns", value.Strs(names...)),
		value.Field("rows", value.Array(rows...)),
	)
}
