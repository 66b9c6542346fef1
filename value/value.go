package value

import (
	"fmt"
)

// Kind represents the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a structured value: null, bool, number, string, array or object.
// A nil *Value behaves as null.
type Value struct {
	kind Kind

	// Scalar values (only one valid based on kind)
	boolVal bool
	numVal  Number
	strVal  string

	// Container values
	arrVal []*Value
	objVal []Entry
}

// Entry is a key-value pair of an object.
type Entry struct {
	Key   string
	Value *Value
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, boolVal: v}
}

// Int creates a signed integer number.
func Int(v int64) *Value {
	return &Value{kind: KindNumber, numVal: I64(v)}
}

// Uint creates an unsigned integer number.
func Uint(v uint64) *Value {
	return &Value{kind: KindNumber, numVal: U64(v)}
}

// Float creates a floating point number.
func Float(v float64) *Value {
	return &Value{kind: KindNumber, numVal: F64(v)}
}

// Num creates a number value from a Number.
func Num(n Number) *Value {
	return &Value{kind: KindNumber, numVal: n}
}

// Str creates a string value.
func Str(v string) *Value {
	return &Value{kind: KindString, strVal: v}
}

// Array creates an array value.
func Array(items ...*Value) *Value {
	if items == nil {
		items = []*Value{}
	}
	return &Value{kind: KindArray, arrVal: items}
}

// Object creates an object value. A key given more than once keeps the
// position of its first occurrence and the value of its last.
func Object(entries ...Entry) *Value {
	v := &Value{kind: KindObject, objVal: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		v.Set(e.Key, e.Value)
	}
	return v
}

// Field creates an Entry for use in Object construction.
func Field(key string, v *Value) Entry {
	return Entry{Key: key, Value: v}
}

// Strs creates an array of strings.
func Strs(items ...string) *Value {
	vals := make([]*Value, len(items))
	for i, s := range items {
		vals[i] = Str(s)
	}
	return Array(vals...)
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull returns true if this is a null value.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	if v.Kind() != KindBool {
		return false, fmt.Errorf("value: expected bool, got %s", v.Kind())
	}
	return v.boolVal, nil
}

// AsNumber returns the number value.
func (v *Value) AsNumber() (Number, error) {
	if v.Kind() != KindNumber {
		return Number{}, fmt.Errorf("value: expected number, got %s", v.Kind())
	}
	return v.numVal, nil
}

// AsStr returns the string value.
func (v *Value) AsStr() (string, error) {
	if v.Kind() != KindString {
		return "", fmt.Errorf("value: expected string, got %s", v.Kind())
	}
	return v.strVal, nil
}

// AsArray returns the array elements. The slice is shared with the value
// and must not be modified.
func (v *Value) AsArray() ([]*Value, error) {
	if v.Kind() != KindArray {
		return nil, fmt.Errorf("value: expected array, got %s", v.Kind())
	}
	return v.arrVal, nil
}

// AsObject returns the object entries in insertion order. The slice is
// shared with the value and must not be modified.
func (v *Value) AsObject() ([]Entry, error) {
	if v.Kind() != KindObject {
		return nil, fmt.Errorf("value: expected object, got %s", v.Kind())
	}
	return v.objVal, nil
}

// Len returns the length of an array, object or string.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.arrVal)
	case KindObject:
		return len(v.objVal)
	case KindString:
		return len(v.strVal)
	default:
		return 0
	}
}

// Lookup returns the entry value for key of an object.
func (v *Value) Lookup(key string) (*Value, bool) {
	if v.Kind() != KindObject {
		return nil, false
	}
	for _, e := range v.objVal {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Get returns the entry value for key of an object, or nil.
func (v *Value) Get(key string) *Value {
	val, _ := v.Lookup(key)
	return val
}

// Index returns the i-th element of an array.
func (v *Value) Index(i int) (*Value, error) {
	if v.Kind() != KindArray {
		return nil, fmt.Errorf("value: not an array")
	}
	if i < 0 || i >= len(v.arrVal) {
		return nil, fmt.Errorf("value: index %d out of bounds (len=%d)", i, len(v.arrVal))
	}
	return v.arrVal[i], nil
}

// ============================================================
// Mutators
// ============================================================

// Set sets an entry on an object, replacing any existing entry for key.
func (v *Value) Set(key string, val *Value) {
	if v.Kind() != KindObject {
		panic("value: cannot set on non-object")
	}
	for i := range v.objVal {
		if v.objVal[i].Key == key {
			v.objVal[i].Value = val
			return
		}
	}
	v.objVal = append(v.objVal, Entry{Key: key, Value: val})
}

// Append adds a value to an array.
func (v *Value) Append(val *Value) {
	if v.Kind() != KindArray {
		panic("value: cannot append to non-array")
	}
	v.arrVal = append(v.arrVal, val)
}

// ============================================================
// Equality
// ============================================================

// Equal reports whether a and b hold the same value. Integers compare by
// numeric value regardless of signedness; object entry order is ignored.
func Equal(a, b *Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}

	switch a.Kind() {
	case KindNull:
		return true
	case KindBool:
		return a.boolVal == b.boolVal
	case KindNumber:
		return a.numVal.Equal(b.numVal)
	case KindString:
		return a.strVal == b.strVal
	case KindArray:
		if len(a.arrVal) != len(b.arrVal) {
			return false
		}
		for i := range a.arrVal {
			if !Equal(a.arrVal[i], b.arrVal[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.objVal) != len(b.objVal) {
			return false
		}
		for _, e := range a.objVal {
			other, ok := b.Lookup(e.Key)
			if !ok || !Equal(e.Value, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String returns the value as compact JSON, or a placeholder if the value
// cannot be represented in JSON.
func (v *Value) String() string {
	data, err := ToJSON(v)
	if err != nil {
		return "<" + v.Kind().String() + ">"
	}
	return string(data)
}
