package table

import (
	"fmt"
)

// ErrorKind classifies an Error.
type ErrorKind uint8

const (
	KindInvalidTable      ErrorKind = iota + 1 // value is not shaped like a table
	KindMissingColumn                          // schema column absent, no default
	KindInvalidType                            // cell variant does not fit the field type
	KindConversion                             // right variant, unrepresentable value
	KindRowOutOfBounds                         // row index past the decoded length
	KindColumnOutOfBounds                      // cell index past the row length
	KindSerialize                              // table value could not be rendered as text
	KindDeserialize                            // text could not be parsed into a value
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidTable:
		return "invalid_table"
	case KindMissingColumn:
		return "missing_column"
	case KindInvalidType:
		return "invalid_type"
	case KindConversion:
		return "conversion"
	case KindRowOutOfBounds:
		return "row_out_of_bounds"
	case KindColumnOutOfBounds:
		return "column_out_of_bounds"
	case KindSerialize:
		return "serialize"
	case KindDeserialize:
		return "deserialize"
	default:
		return "unknown"
	}
}

// Error is the error returned by table encoding and decoding.
// Only the fields relevant to Kind are set.
type Error struct {
	Kind ErrorKind

	Reason   string // InvalidTable, Conversion, Serialize, Deserialize; detail for MissingColumn
	Column   string // MissingColumn; column being read for InvalidType and Conversion
	Expected string // InvalidType
	Got      string // InvalidType
	Index    int    // RowOutOfBounds, ColumnOutOfBounds
	Len      int    // RowOutOfBounds, ColumnOutOfBounds

	Err error // underlying cause, if any
}

// Sentinels for errors.Is. Any *Error matches the sentinel of its Kind.
var (
	ErrInvalidTable      = &Error{Kind: KindInvalidTable}
	ErrMissingColumn     = &Error{Kind: KindMissingColumn}
	ErrInvalidType       = &Error{Kind: KindInvalidType}
	ErrConversion        = &Error{Kind: KindConversion}
	ErrRowOutOfBounds    = &Error{Kind: KindRowOutOfBounds}
	ErrColumnOutOfBounds = &Error{Kind: KindColumnOutOfBounds}
	ErrSerialize         = &Error{Kind: KindSerialize}
	ErrDeserialize       = &Error{Kind: KindDeserialize}
)

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindInvalidTable:
		msg = "invalid table: " + e.Reason
	case KindMissingColumn:
		if e.Reason != "" {
			return fmt.Sprintf("missing required column: %s (%s)", e.Column, e.Reason)
		}
		return "missing required column: " + e.Column
	case KindInvalidType:
		msg = fmt.Sprintf("invalid value type: expected %s, got %s", e.Expected, e.Got)
	case KindConversion:
		msg = "conversion error: " + e.Reason
	case KindRowOutOfBounds:
		return fmt.Sprintf("row index %d out of bounds (table has %d rows)", e.Index, e.Len)
	case KindColumnOutOfBounds:
		return fmt.Sprintf("column index %d out of bounds (table has %d columns)", e.Index, e.Len)
	case KindSerialize:
		msg = "serialization error: " + e.Reason
	case KindDeserialize:
		msg = "deserialization error: " + e.Reason
	default:
		msg = "unknown table error"
	}
	if e.Column != "" {
		msg += fmt.Sprintf(" (column %q)", e.Column)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func invalidTable(reason string) *Error {
	return &Error{Kind: KindInvalidTable, Reason: reason}
}

func missingColumn(name string) *Error {
	return &Error{Kind: KindMissingColumn, Column: name}
}

func invalidType(expected string, got fmt.Stringer) *Error {
	return &Error{Kind: KindInvalidType, Expected: expected, Got: got.String()}
}

func conversion(format string, args ...any) *Error {
	return &Error{Kind: KindConversion, Reason: fmt.Sprintf(format, args...)}
}

// inColumn attaches the column name to a cell error.
func inColumn(err error, name string) error {
	if e, ok := err.(*Error); ok && e.Column == "" {
		c := *e
		c.Column = name
		return &c
	}
	return err
}

// SchemaError reports an invalid record type or field configuration.
// It is returned when a schema is built, never by Encode or Decode.
type SchemaError struct {
	Type  string // record type name
	Field string // offending field, if any
	Msg   string
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("table: %s.%s: %s", e.Type, e.Field, e.Msg)
	}
	return fmt.Sprintf("table: %s: %s", e.Type, e.Msg)
}
