package table

import (
	"github.com/Neumenon/coltab/value"
)

// EncodeJSON encodes records as a table and renders it as compact JSON.
func (s *Schema[R]) EncodeJSON(records []R) ([]byte, error) {
	data, err := value.ToJSON(s.Encode(records))
	if err != nil {
		return nil, serializeError(err)
	}
	return data, nil
}

// DecodeJSON parses JSON text and decodes the table it holds.
func (s *Schema[R]) DecodeJSON(data []byte) ([]R, error) {
	v, err := value.FromJSON(data)
	if err != nil {
		return nil, deserializeError(err)
	}
	return s.Decode(v)
}

// EncodeYAML encodes records as a table and renders it as YAML.
func (s *Schema[R]) EncodeYAML(records []R) ([]byte, error) {
	data, err := value.ToYAML(s.Encode(records))
	if err != nil {
		return nil, serializeError(err)
	}
	return data, nil
}

// DecodeYAML parses YAML text and decodes the table it holds.
func (s *Schema[R]) DecodeYAML(data []byte) ([]R, error) {
	v, err := value.FromYAML(data)
	if err != nil {
		return nil, deserializeError(err)
	}
	return s.Decode(v)
}

func serializeError(err error) *Error {
	return &Error{Kind: KindSerialize, Reason: err.Error(), Err: err}
}

func deserializeError(err error) *Error {
	return &Error{Kind: KindDeserialize, Reason: err.Error(), Err: err}
}
