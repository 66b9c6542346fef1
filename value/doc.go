// Package value implements the structured value model used by coltab tables.
//
// A Value is one of:
//   - null
//   - bool
//   - number (stored as i64, u64 or f64; see Number)
//   - string
//   - array of values
//   - object mapping string keys to values
//
// Values are built with constructors and inspected with fallible accessors
// that return an error instead of panicking on a kind mismatch:
//
//	v := value.Object(
//	    value.Field("id", value.Int(1)),
//	    value.Field("tags", value.Strs("a", "b")),
//	)
//	id, err := v.Get("id").AsNumber()
//
// # Text Bridges
//
// FromJSON/ToJSON and FromYAML/ToYAML convert between text and Value while
// keeping the integer/float distinction of number literals, so an encoded
// table re-parses to an equal Value.
package value
