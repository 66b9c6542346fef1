package table

import (
	"fmt"
	"reflect"

	"github.com/Neumenon/coltab/value"
)

// ============================================================
// Dynamic Schemas
// ============================================================
//
// A DynamicSchema describes records that exist only as object values, with
// the column layout declared as data instead of struct tags. Cells go
// through the same codecs as typed schemas, so a dynamic table holds exactly
// what a struct with the same field types would produce.

// ColumnSpec declares one column of a DynamicSchema.
type ColumnSpec struct {
	Field    string // key in the record objects
	Name     string // column name; Field when empty
	Type     string // scalar type name, e.g. "string", "uint64", "uuid"
	Order    *int   // explicit position
	Skip     bool
	Default  bool // absent column (or record field) yields the zero value
	Optional bool // cells may be null
}

// DynamicSchema is a column layout for object records. It is immutable
// once built and safe for concurrent use.
type DynamicSchema struct {
	cols  []column
	names []string
}

const dynamicTypeName = "dynamic"

// NewDynamicSchema resolves specs into a schema using the same ordering
// rules as NewSchema.
func NewDynamicSchema(specs []ColumnSpec) (*DynamicSchema, error) {
	var cols []column
	for i, spec := range specs {
		if spec.Field == "" {
			return nil, &SchemaError{Type: dynamicTypeName, Field: fmt.Sprintf("#%d", i), Msg: "field is required"}
		}
		if spec.Skip {
			continue
		}

		fc := fieldConfig{def: spec.Default}
		if spec.Name != "" {
			fc.rename, fc.hasRename = spec.Name, true
		}
		if spec.Order != nil {
			fc.order, fc.hasOrder = *spec.Order, true
		}

		codec, err := codecByName(spec.Type, spec.Optional)
		if err != nil {
			return nil, &SchemaError{Type: dynamicTypeName, Field: spec.Field, Msg: err.Error()}
		}
		col, err := resolveColumn(spec.Field, fc, codec.typ)
		if err != nil {
			return nil, &SchemaError{Type: dynamicTypeName, Field: spec.Field, Msg: err.Error()}
		}
		cols = append(cols, col)
	}

	sortColumns(cols)
	return &DynamicSchema{cols: cols, names: columnNames(cols)}, nil
}

// Columns returns the column names in table order.
func (d *DynamicSchema) Columns() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Descriptors returns the resolved column descriptors in table order.
func (d *DynamicSchema) Descriptors() []Column {
	out := make([]Column, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.Column
	}
	return out
}

// Encode converts object records to a table value. Unlike Schema.Encode it
// can fail, because records are not typed: each field is read through its
// column codec and written back in canonical form.
func (d *DynamicSchema) Encode(records []*value.Value) (*value.Value, error) {
	rows := make([]*value.Value, 0, len(records))
	for _, rec := range records {
		if rec.Kind() != value.KindObject {
			return nil, invalidType("object", rec.Kind())
		}

		cells := make([]*value.Value, len(d.cols))
		for j := range d.cols {
			col := &d.cols[j]
			src, ok := rec.Lookup(col.Field)
			if !ok && !col.Default && col.codec.typ.Kind() != reflect.Pointer {
				err := missingColumn(col.Name)
				err.Reason = fmt.Sprintf("record has no field %q", col.Field)
				return nil, err
			}
			cell, err := normalize(col, src)
			if err != nil {
				return nil, inColumn(err, col.Name)
			}
			cells[j] = cell
		}
		rows = append(rows, value.Array(cells...))
	}
	return newTable(d.names, rows), nil
}

// Decode converts a table value into object records keyed by each
// column's Field, in schema order.
func (d *DynamicSchema) Decode(v *value.Value) ([]*value.Value, error) {
	b := &objectBuilder{}
	if err := walkTable(v, d.cols, b); err != nil {
		return nil, err
	}
	return b.out, nil
}

// GetRow decodes the whole table and returns the record at index.
func (d *DynamicSchema) GetRow(v *value.Value, index int) (*value.Value, error) {
	rows, err := d.Decode(v)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(rows) {
		return nil, &Error{Kind: KindRowOutOfBounds, Index: index, Len: len(rows)}
	}
	return rows[index], nil
}

// normalize reads src through the column codec and writes it back. A nil
// src yields the zero value of the column type.
func normalize(col *column, src *value.Value) (*value.Value, error) {
	tmp := reflect.New(col.codec.typ).Elem()
	if src != nil {
		if err := col.codec.read(src, tmp); err != nil {
			return nil, err
		}
	}
	return col.codec.write(tmp), nil
}

// objectBuilder assembles one object record per table row.
type objectBuilder struct {
	out     []*value.Value
	entries []value.Entry
}

func (b *objectBuilder) grow(rows int) {
	b.out = make([]*value.Value, 0, rows)
}

func (b *objectBuilder) startRow() {
	b.entries = nil
}

func (b *objectBuilder) setCell(col *column, cell *value.Value) error {
	out, err := normalize(col, cell)
	if err != nil {
		return err
	}
	b.entries = append(b.entries, value.Field(col.Field, out))
	return nil
}

func (b *objectBuilder) endRow() {
	b.out = append(b.out, value.Object(b.entries...))
}
