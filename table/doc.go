// Package table converts between slices of uniformly-shaped records and a
// compact columnar table value.
//
// Instead of one object per record, a table names every column once:
//
//	{"columns": ["id", "name", "role"],
//	 "rows": [[1, "Alice", "admin"], [2, "Bob", "user"]]}
//
// # Schemas
//
// A Schema is built once per record type from its exported struct fields:
//
//	type Product struct {
//	    ID       uint64  `table:"productId"`
//	    Name     string  `table:"productName"`
//	    Price    float64 `table:"price"`
//	    Category string  `table:"category,default"`
//	    Scratch  string  `table:"-"`
//	}
//
//	var products = table.MustSchema[Product]()
//
// Tag attributes:
//   - first element: column name (field name when empty)
//   - order=N: explicit position; ordered columns come first, ascending
//   - default: decoding yields the zero value when the column is absent
//   - skip (or the tag "-"): the field is not part of the table
//
// The same settings can be given in code with WithField.
//
// # Cells
//
// Field types must be convertible to and from a cell: bool, signed and
// unsigned integers of every width, float32/float64, string, pointers to any
// of these (nil is null), uuid.UUID, decimal.Decimal, time.Time, types that
// implement CellWriter and CellReader, and types added with Register. Any
// other field type makes schema construction fail.
//
// Decoding never truncates: an integer cell that does not fit the field
// width, or a float cell read into an integer field, is a conversion error.
// A null cell reads as "" for strings and nil for pointers.
//
// # Errors
//
// Decoding errors are *Error values; match them with errors.Is against
// ErrInvalidTable, ErrMissingColumn, ErrInvalidType, ErrConversion,
// ErrRowOutOfBounds and ErrColumnOutOfBounds, or inspect the fields with
// errors.As.
package table
