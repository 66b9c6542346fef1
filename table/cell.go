package table

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/Neumenon/coltab/value"
)

// ============================================================
// Cell Conversion
// ============================================================
//
// Every field type of a record needs two capabilities: Write (field value
// -> cell) and Read (cell -> field value). The basic kinds are built in;
// other types participate by implementing CellWriter and CellReader, or by
// being registered with Register. The codec for each field is resolved once,
// when the schema is built.

// CellWriter is implemented by types that can write themselves as a cell.
type CellWriter interface {
	ToCell() *value.Value
}

// CellReader is implemented by pointer types that can read themselves from
// a cell.
type CellReader interface {
	FromCell(cell *value.Value) error
}

// cellCodec reads and writes values of one Go type.
type cellCodec struct {
	typ   reflect.Type
	read  func(cell *value.Value, dst reflect.Value) error
	write func(src reflect.Value) *value.Value
}

var registry = struct {
	sync.RWMutex
	codecs map[reflect.Type]*cellCodec
}{codecs: make(map[reflect.Type]*cellCodec)}

// Register installs the Read and Write capabilities for T, replacing any
// earlier registration. Schemas built before the call keep the codec they
// resolved. Errors returned by read that are not *Error are reported as
// conversion errors.
func Register[T any](read func(cell *value.Value) (T, error), write func(v T) *value.Value) {
	typ := reflect.TypeFor[T]()
	c := &cellCodec{
		typ: typ,
		read: func(cell *value.Value, dst reflect.Value) error {
			v, err := read(cell)
			if err != nil {
				return asCellError(err)
			}
			dst.Set(reflect.ValueOf(&v).Elem())
			return nil
		},
		write: func(src reflect.Value) *value.Value {
			return orNull(write(src.Interface().(T)))
		},
	}

	registry.Lock()
	registry.codecs[typ] = c
	registry.Unlock()
}

var (
	cellWriterType = reflect.TypeFor[CellWriter]()
	cellReaderType = reflect.TypeFor[CellReader]()
)

// codecFor resolves the codec for a field type.
func codecFor(t reflect.Type) (*cellCodec, error) {
	registry.RLock()
	c, ok := registry.codecs[t]
	registry.RUnlock()
	if ok {
		return c, nil
	}

	if t.Implements(cellWriterType) && reflect.PointerTo(t).Implements(cellReaderType) {
		return selfCodec(t), nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return &cellCodec{typ: t, read: readBool, write: writeBool}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &cellCodec{typ: t, read: readInt, write: writeInt}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &cellCodec{typ: t, read: readUint, write: writeUint}, nil
	case reflect.Float32, reflect.Float64:
		return &cellCodec{typ: t, read: readFloat, write: writeFloat}, nil
	case reflect.String:
		return &cellCodec{typ: t, read: readString, write: writeString}, nil
	case reflect.Pointer:
		elem, err := codecFor(t.Elem())
		if err != nil {
			return nil, err
		}
		return optionalCodec(t, elem), nil
	}

	return nil, fmt.Errorf("unsupported field type %s", t)
}

// selfCodec uses the type's own CellWriter and CellReader methods.
func selfCodec(t reflect.Type) *cellCodec {
	return &cellCodec{
		typ: t,
		read: func(cell *value.Value, dst reflect.Value) error {
			p := reflect.New(t)
			if err := p.Interface().(CellReader).FromCell(cell); err != nil {
				return asCellError(err)
			}
			dst.Set(p.Elem())
			return nil
		},
		write: func(src reflect.Value) *value.Value {
			if src.Kind() == reflect.Pointer && src.IsNil() {
				return value.Null()
			}
			return orNull(src.Interface().(CellWriter).ToCell())
		},
	}
}

// optionalCodec maps nil to null and delegates everything else to elem.
func optionalCodec(t reflect.Type, elem *cellCodec) *cellCodec {
	return &cellCodec{
		typ: t,
		read: func(cell *value.Value, dst reflect.Value) error {
			if cell.IsNull() {
				dst.SetZero()
				return nil
			}
			p := reflect.New(t.Elem())
			if err := elem.read(cell, p.Elem()); err != nil {
				return err
			}
			dst.Set(p)
			return nil
		},
		write: func(src reflect.Value) *value.Value {
			if src.IsNil() {
				return value.Null()
			}
			return elem.write(src.Elem())
		},
	}
}

// ============================================================
// Built-in Kinds
// ============================================================

func readBool(cell *value.Value, dst reflect.Value) error {
	b, err := cell.AsBool()
	if err != nil {
		return invalidType("bool", cell.Kind())
	}
	dst.SetBool(b)
	return nil
}

func writeBool(src reflect.Value) *value.Value {
	return value.Bool(src.Bool())
}

func readInt(cell *value.Value, dst reflect.Value) error {
	n, err := cell.AsNumber()
	if err != nil {
		return invalidType(dst.Kind().String(), cell.Kind())
	}
	i, ok := n.Int64()
	if !ok {
		return conversion("number %s is not an i64", n)
	}
	if dst.OverflowInt(i) {
		return conversion("number %d out of range for %s", i, dst.Kind())
	}
	dst.SetInt(i)
	return nil
}

func writeInt(src reflect.Value) *value.Value {
	return value.Int(src.Int())
}

func readUint(cell *value.Value, dst reflect.Value) error {
	n, err := cell.AsNumber()
	if err != nil {
		return invalidType(dst.Kind().String(), cell.Kind())
	}
	u, ok := n.Uint64()
	if !ok {
		return conversion("number %s is not a u64", n)
	}
	if dst.OverflowUint(u) {
		return conversion("number %d out of range for %s", u, dst.Kind())
	}
	dst.SetUint(u)
	return nil
}

func writeUint(src reflect.Value) *value.Value {
	return value.Uint(src.Uint())
}

func readFloat(cell *value.Value, dst reflect.Value) error {
	n, err := cell.AsNumber()
	if err != nil {
		return invalidType(dst.Kind().String(), cell.Kind())
	}
	f := n.Float64()
	if dst.OverflowFloat(f) {
		return conversion("number %s out of range for %s", n, dst.Kind())
	}
	dst.SetFloat(f)
	return nil
}

func writeFloat(src reflect.Value) *value.Value {
	return value.Float(src.Float())
}

// readString accepts null as the empty string.
func readString(cell *value.Value, dst reflect.Value) error {
	if cell.IsNull() {
		dst.SetString("")
		return nil
	}
	s, err := cell.AsStr()
	if err != nil {
		return invalidType("string", cell.Kind())
	}
	dst.SetString(s)
	return nil
}

func writeString(src reflect.Value) *value.Value {
	return value.Str(src.String())
}

// ============================================================
// Named Scalar Types
// ============================================================

// scalarTypes maps the type names accepted by ColumnSpec to Go types.
// Entries are only added during package initialisation.
var scalarTypes = map[string]reflect.Type{
	"bool":    reflect.TypeFor[bool](),
	"int":     reflect.TypeFor[int](),
	"int8":    reflect.TypeFor[int8](),
	"int16":   reflect.TypeFor[int16](),
	"int32":   reflect.TypeFor[int32](),
	"int64":   reflect.TypeFor[int64](),
	"uint":    reflect.TypeFor[uint](),
	"uint8":   reflect.TypeFor[uint8](),
	"uint16":  reflect.TypeFor[uint16](),
	"uint32":  reflect.TypeFor[uint32](),
	"uint64":  reflect.TypeFor[uint64](),
	"float32": reflect.TypeFor[float32](),
	"float64": reflect.TypeFor[float64](),
	"string":  reflect.TypeFor[string](),
}

// codecByName resolves a scalar type name, wrapping it in an optional codec
// when optional is set.
func codecByName(name string, optional bool) (*cellCodec, error) {
	t, ok := scalarTypes[name]
	if !ok {
		return nil, fmt.Errorf("unknown column type %q", name)
	}
	if optional {
		t = reflect.PointerTo(t)
	}
	return codecFor(t)
}

func asCellError(err error) error {
	if _, ok := err.(*Error); ok {
		return err
	}
	return &Error{Kind: KindConversion, Reason: err.Error(), Err: err}
}

func orNull(v *value.Value) *value.Value {
	if v == nil {
		return value.Null()
	}
	return v
}
