package table

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Column describes one encoded field of a record type.
type Column struct {
	Field    string // source field (Go struct field name, or object key for dynamic schemas)
	Name     string // name in the table's columns list
	Order    int    // explicit position, valid when HasOrder
	HasOrder bool
	Default  bool // decoding yields the zero value when the column is absent
}

// column is a resolved Column with its access path and codec.
type column struct {
	Column
	index []int // struct field index; nil for dynamic schemas
	codec *cellCodec
}

// Schema is the ordered column layout of record type R. It is immutable
// once built and safe for concurrent use.
type Schema[R any] struct {
	typ   reflect.Type
	cols  []column
	names []string
}

// NewSchema builds the schema of struct type R from its exported fields,
// their `table` tags and opts.
//
// Tag syntax:
//
//	ID       uint64 `table:"productId,order=0"`
//	Category string `table:",default"`
//	Cache    string `table:"-"`
//
// Unsupported field types and invalid configuration are reported here as
// *SchemaError, so Encode and Decode never fail for schema reasons.
func NewSchema[R any](opts ...Option) (*Schema[R], error) {
	typ := reflect.TypeFor[R]()
	if typ.Kind() != reflect.Struct {
		return nil, &SchemaError{Type: typ.String(), Msg: "record type must be a struct"}
	}

	cfg := schemaConfig{tagKey: DefaultTagKey}
	for _, opt := range opts {
		opt(&cfg)
	}

	overrides := make(map[string][]FieldOption, len(cfg.fields))
	for _, fo := range cfg.fields {
		sf, ok := typ.FieldByName(fo.field)
		if !ok || !sf.IsExported() || len(sf.Index) != 1 {
			return nil, &SchemaError{Type: typ.String(), Field: fo.field, Msg: "no such exported field"}
		}
		overrides[fo.field] = append(overrides[fo.field], fo.opts...)
	}

	var cols []column
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}

		fc, err := parseTag(sf.Tag.Get(cfg.tagKey))
		if err != nil {
			return nil, &SchemaError{Type: typ.String(), Field: sf.Name, Msg: err.Error()}
		}
		for _, opt := range overrides[sf.Name] {
			opt(&fc)
		}
		if fc.skip {
			continue
		}

		col, err := resolveColumn(sf.Name, fc, sf.Type)
		if err != nil {
			return nil, &SchemaError{Type: typ.String(), Field: sf.Name, Msg: err.Error()}
		}
		col.index = sf.Index
		cols = append(cols, col)
	}

	sortColumns(cols)
	return &Schema[R]{typ: typ, cols: cols, names: columnNames(cols)}, nil
}

// MustSchema is like NewSchema but panics on error. It is meant for
// package-level schema variables.
func MustSchema[R any](opts ...Option) *Schema[R] {
	s, err := NewSchema[R](opts...)
	if err != nil {
		panic(err)
	}
	return s
}

var schemaCache sync.Map // reflect.Type -> *Schema[R]

// For returns the shared schema of R built from its struct tags. The
// schema is built on first use and reused afterwards.
func For[R any]() (*Schema[R], error) {
	typ := reflect.TypeFor[R]()
	if s, ok := schemaCache.Load(typ); ok {
		return s.(*Schema[R]), nil
	}

	s, err := NewSchema[R]()
	if err != nil {
		return nil, err
	}
	actual, _ := schemaCache.LoadOrStore(typ, s)
	return actual.(*Schema[R]), nil
}

// Columns returns the column names in table order.
func (s *Schema[R]) Columns() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Descriptors returns the resolved column descriptors in table order.
func (s *Schema[R]) Descriptors() []Column {
	out := make([]Column, len(s.cols))
	for i, c := range s.cols {
		out[i] = c.Column
	}
	return out
}

// Len returns the number of columns.
func (s *Schema[R]) Len() int {
	return len(s.cols)
}

// ============================================================
// Column Resolution
// ============================================================

func resolveColumn(field string, fc fieldConfig, typ reflect.Type) (column, error) {
	name := field
	if fc.hasRename {
		if fc.rename == "" {
			return column{}, fmt.Errorf("column name must not be empty")
		}
		name = fc.rename
	}
	if fc.hasOrder && fc.order < 0 {
		return column{}, fmt.Errorf("order must be non-negative, got %d", fc.order)
	}

	codec, err := codecFor(typ)
	if err != nil {
		return column{}, err
	}

	return column{
		Column: Column{
			Field:    field,
			Name:     name,
			Order:    fc.order,
			HasOrder: fc.hasOrder,
			Default:  fc.def,
		},
		codec: codec,
	}, nil
}

// sortColumns orders columns with an explicit order first, ascending, and
// keeps declaration order otherwise.
func sortColumns(cols []column) {
	sort.SliceStable(cols, func(i, j int) bool {
		a, b := cols[i], cols[j]
		switch {
		case a.HasOrder && b.HasOrder:
			return a.Order < b.Order
		case a.HasOrder:
			return true
		default:
			return false
		}
	})
}

func columnNames(cols []column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
