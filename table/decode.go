package table

import (
	"reflect"

	"github.com/Neumenon/coltab/value"
)

// ============================================================
// Table Decoder
// ============================================================

// Decode converts a table value into records. Schema columns are matched
// to table columns by name, so the table may order its columns freely and
// carry extra ones. A column absent from the table yields the zero value if
// it is marked default, otherwise MissingColumn. The first error aborts the
// call; no partial result is returned. v is not modified.
func (s *Schema[R]) Decode(v *value.Value) ([]R, error) {
	b := &recordBuilder[R]{}
	if err := walkTable(v, s.cols, b); err != nil {
		return nil, err
	}
	return b.out, nil
}

// GetRow decodes the whole table and returns the record at index.
// Callers that need several rows should Decode once instead.
func (s *Schema[R]) GetRow(v *value.Value, index int) (R, error) {
	var zero R
	rows, err := s.Decode(v)
	if err != nil {
		return zero, err
	}
	if index < 0 || index >= len(rows) {
		return zero, &Error{Kind: KindRowOutOfBounds, Index: index, Len: len(rows)}
	}
	return rows[index], nil
}

// Decode converts a table value into records using the shared schema of R.
func Decode[R any](v *value.Value) ([]R, error) {
	s, err := For[R]()
	if err != nil {
		return nil, err
	}
	return s.Decode(v)
}

// GetRow returns one decoded record using the shared schema of R.
func GetRow[R any](v *value.Value, index int) (R, error) {
	s, err := For[R]()
	if err != nil {
		var zero R
		return zero, err
	}
	return s.GetRow(v, index)
}

// ============================================================
// Table Shape
// ============================================================

// Columns extracts the column names of a table value.
func Columns(v *value.Value) ([]string, error) {
	if v.Kind() != value.KindObject {
		return nil, invalidTable("table must be an object")
	}
	cols, ok := v.Lookup("columns")
	if !ok {
		return nil, invalidTable("missing 'columns' field")
	}
	items, err := cols.AsArray()
	if err != nil {
		return nil, invalidTable("'columns' must be an array")
	}

	names := make([]string, len(items))
	for i, item := range items {
		name, err := item.AsStr()
		if err != nil {
			return nil, invalidTable("column names must be strings")
		}
		names[i] = name
	}
	return names, nil
}

// Rows extracts the row values of a table value. Rows are not checked to
// be arrays here; Cell does that when a row is read.
func Rows(v *value.Value) ([]*value.Value, error) {
	if v.Kind() != value.KindObject {
		return nil, invalidTable("table must be an object")
	}
	rows, ok := v.Lookup("rows")
	if !ok {
		return nil, invalidTable("missing 'rows' field")
	}
	items, err := rows.AsArray()
	if err != nil {
		return nil, invalidTable("'rows' must be an array")
	}
	return items, nil
}

// Cell returns the cell at index of a row.
func Cell(row *value.Value, index int) (*value.Value, error) {
	cells, err := row.AsArray()
	if err != nil {
		return nil, invalidTable("row must be an array")
	}
	if index < 0 || index >= len(cells) {
		return nil, &Error{Kind: KindColumnOutOfBounds, Index: index, Len: len(cells)}
	}
	return cells[index], nil
}

// ============================================================
// Row Walking
// ============================================================

// rowBuilder assembles one output record per table row.
type rowBuilder interface {
	grow(rows int)
	startRow()
	// setCell stores the cell of col. A nil cell means the column is
	// absent from the table and its default applies.
	setCell(col *column, cell *value.Value) error
	endRow()
}

// walkTable validates the table shape and feeds every row to b, resolving
// each schema column by name.
func walkTable(v *value.Value, cols []column, b rowBuilder) error {
	names, err := Columns(v)
	if err != nil {
		return err
	}

	// Later duplicates overwrite earlier ones: the last column of a
	// repeated name is the one read.
	lookup := make(map[string]int, len(names))
	for i, name := range names {
		lookup[name] = i
	}

	rows, err := Rows(v)
	if err != nil {
		return err
	}

	b.grow(len(rows))
	for _, row := range rows {
		b.startRow()
		for j := range cols {
			col := &cols[j]
			idx, ok := lookup[col.Name]
			if !ok {
				if !col.Default {
					return missingColumn(col.Name)
				}
				if err := b.setCell(col, nil); err != nil {
					return err
				}
				continue
			}

			cell, err := Cell(row, idx)
			if err != nil {
				return err
			}
			if err := b.setCell(col, cell); err != nil {
				return inColumn(err, col.Name)
			}
		}
		b.endRow()
	}
	return nil
}

// recordBuilder fills a slice of struct records.
type recordBuilder[R any] struct {
	out []R
	cur reflect.Value
	n   int
}

func (b *recordBuilder[R]) grow(rows int) {
	b.out = make([]R, rows)
}

func (b *recordBuilder[R]) startRow() {
	b.cur = reflect.ValueOf(&b.out[b.n]).Elem()
}

func (b *recordBuilder[R]) setCell(col *column, cell *value.Value) error {
	if cell == nil {
		// the record starts zeroed
		return nil
	}
	return col.codec.read(cell, b.cur.FieldByIndex(col.index))
}

func (b *recordBuilder[R]) endRow() {
	b.n++
}
