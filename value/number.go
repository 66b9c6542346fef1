package value

import (
	"math"
	"strconv"
)

// NumberKind is the stored representation of a Number.
type NumberKind uint8

const (
	NumberI64 NumberKind = iota
	NumberU64
	NumberF64
)

// String returns the representation name.
func (k NumberKind) String() string {
	switch k {
	case NumberI64:
		return "i64"
	case NumberU64:
		return "u64"
	case NumberF64:
		return "f64"
	default:
		return "unknown"
	}
}

// Number is a numeric value stored as a signed integer, an unsigned integer
// or a float.
type Number struct {
	kind NumberKind
	i    int64
	u    uint64
	f    float64
}

// I64 creates a signed integer number.
func I64(v int64) Number { return Number{kind: NumberI64, i: v} }

// U64 creates an unsigned integer number.
func U64(v uint64) Number { return Number{kind: NumberU64, u: v} }

// F64 creates a float number.
func F64(v float64) Number { return Number{kind: NumberF64, f: v} }

// Kind returns the stored representation.
func (n Number) Kind() NumberKind { return n.kind }

// IsFloat reports whether the number is stored as a float.
func (n Number) IsFloat() bool { return n.kind == NumberF64 }

// Int64 returns the number as int64 if it is an integer that fits.
// Floats never convert, even when integral.
func (n Number) Int64() (int64, bool) {
	switch n.kind {
	case NumberI64:
		return n.i, true
	case NumberU64:
		if n.u > math.MaxInt64 {
			return 0, false
		}
		return int64(n.u), true
	default:
		return 0, false
	}
}

// Uint64 returns the number as uint64 if it is a non-negative integer.
// Floats never convert, even when integral.
func (n Number) Uint64() (uint64, bool) {
	switch n.kind {
	case NumberI64:
		if n.i < 0 {
			return 0, false
		}
		return uint64(n.i), true
	case NumberU64:
		return n.u, true
	default:
		return 0, false
	}
}

// Float64 returns the number widened to float64.
func (n Number) Float64() float64 {
	switch n.kind {
	case NumberI64:
		return float64(n.i)
	case NumberU64:
		return float64(n.u)
	default:
		return n.f
	}
}

// Equal reports whether two numbers are equal. Integers compare by value
// across representations; floats only equal floats.
func (n Number) Equal(o Number) bool {
	if n.kind == NumberF64 || o.kind == NumberF64 {
		return n.kind == o.kind && n.f == o.f
	}
	if a, ok := n.Int64(); ok {
		b, ok := o.Int64()
		return ok && a == b
	}
	// n is a u64 above MaxInt64
	b, ok := o.Uint64()
	return ok && n.u == b
}

// String returns the decimal representation. Integral floats keep a
// trailing ".0" so they stay floats when re-parsed.
func (n Number) String() string {
	switch n.kind {
	case NumberI64:
		return strconv.FormatInt(n.i, 10)
	case NumberU64:
		return strconv.FormatUint(n.u, 10)
	default:
		return formatFloat(n.f)
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', 'e', 'E':
			return s
		}
	}
	return s + ".0"
}

// parseNumber parses a decimal literal, preferring i64, then u64, then f64.
func parseNumber(s string) (Number, error) {
	isInt := true
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', 'e', 'E':
			isInt = false
		}
	}
	if isInt {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return I64(i), nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return U64(u), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}, err
	}
	return F64(f), nil
}
