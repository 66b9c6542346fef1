package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ============================================================
// JSON Bridge
// ============================================================
//
// Converts between JSON text and Value. Number literals keep their
// representation: integers become I64 (U64 above MaxInt64), everything
// else F64. Object key order is preserved in both directions.

// FromJSON parses JSON text into a Value.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSON(dec)
	if err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("JSON parse error: unexpected data after top-level value")
	}
	return v, nil
}

func decodeJSON(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil

	case bool:
		return Bool(t), nil

	case json.Number:
		n, err := parseNumber(string(t))
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", t, err)
		}
		return Num(n), nil

	case string:
		return Str(t), nil

	case json.Delim:
		switch t {
		case '[':
			items := make([]*Value, 0)
			for i := 0; dec.More(); i++ {
				elem, err := decodeJSON(dec)
				if err != nil {
					return nil, fmt.Errorf("array[%d]: %w", i, err)
				}
				items = append(items, elem)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return Array(items...), nil

		case '{':
			obj := Object()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key must be a string, got %v", keyTok)
				}
				elem, err := decodeJSON(dec)
				if err != nil {
					return nil, fmt.Errorf("object[%q]: %w", key, err)
				}
				obj.Set(key, elem)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		}
	}

	return nil, fmt.Errorf("unexpected JSON token: %v", tok)
}

// ToJSON converts a Value to compact JSON text.
func ToJSON(v *Value) ([]byte, error) {
	return ToJSONIndent(v, "")
}

// ToJSONIndent converts a Value to JSON text. A non-empty indent enables
// multi-line output; arrays holding only scalars stay on one line.
func ToJSONIndent(v *Value, indent string) ([]byte, error) {
	e := &jsonEmitter{indent: indent}
	if err := e.emit(v, 0); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

type jsonEmitter struct {
	buf    bytes.Buffer
	indent string
}

func (e *jsonEmitter) emit(v *Value, depth int) error {
	switch v.Kind() {
	case KindNull:
		e.buf.WriteString("null")

	case KindBool:
		if v.boolVal {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}

	case KindNumber:
		if v.numVal.IsFloat() && (math.IsNaN(v.numVal.f) || math.IsInf(v.numVal.f, 0)) {
			return fmt.Errorf("NaN/Infinity not allowed in JSON")
		}
		e.buf.WriteString(v.numVal.String())

	case KindString:
		e.buf.WriteString(quoteString(v.strVal))

	case KindArray:
		return e.emitArray(v, depth)

	case KindObject:
		return e.emitObject(v, depth)

	default:
		return fmt.Errorf("unsupported value kind: %s", v.Kind())
	}
	return nil
}

func (e *jsonEmitter) emitArray(v *Value, depth int) error {
	if len(v.arrVal) == 0 {
		e.buf.WriteString("[]")
		return nil
	}

	multiline := e.indent != "" && !allScalars(v.arrVal)
	e.buf.WriteByte('[')
	for i, elem := range v.arrVal {
		if i > 0 {
			e.buf.WriteByte(',')
			if e.indent != "" && !multiline {
				e.buf.WriteByte(' ')
			}
		}
		if multiline {
			e.newline(depth + 1)
		}
		if err := e.emit(elem, depth+1); err != nil {
			return err
		}
	}
	if multiline {
		e.newline(depth)
	}
	e.buf.WriteByte(']')
	return nil
}

func (e *jsonEmitter) emitObject(v *Value, depth int) error {
	if len(v.objVal) == 0 {
		e.buf.WriteString("{}")
		return nil
	}

	e.buf.WriteByte('{')
	for i, entry := range v.objVal {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		if e.indent != "" {
			e.newline(depth + 1)
		}
		e.buf.WriteString(quoteString(entry.Key))
		e.buf.WriteByte(':')
		if e.indent != "" {
			e.buf.WriteByte(' ')
		}
		if err := e.emit(entry.Value, depth+1); err != nil {
			return err
		}
	}
	if e.indent != "" {
		e.newline(depth)
	}
	e.buf.WriteByte('}')
	return nil
}

func (e *jsonEmitter) newline(depth int) {
	e.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.buf.WriteString(e.indent)
	}
}

func allScalars(items []*Value) bool {
	for _, it := range items {
		if k := it.Kind(); k == KindArray || k == KindObject {
			return false
		}
	}
	return true
}

// quoteString returns a JSON string literal with minimal escapes.
func quoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				// Control character: use \u00XX
				b.WriteString(`\u00`)
				hex := strconv.FormatInt(int64(r), 16)
				if len(hex) == 1 {
					b.WriteByte('0')
				}
				b.WriteString(strings.ToUpper(hex))
			} else {
				b.WriteRune(r)
			}
		}
	}

	b.WriteByte('"')
	return b.String()
}
