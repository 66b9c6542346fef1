package table

import (
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Neumenon/coltab/value"
)

func init() {
	Register(readUUID, writeUUID)
	Register(readDecimal, writeDecimal)
	Register(readTime, writeTime)

	scalarTypes["uuid"] = reflect.TypeFor[uuid.UUID]()
	scalarTypes["decimal"] = reflect.TypeFor[decimal.Decimal]()
	scalarTypes["time"] = reflect.TypeFor[time.Time]()
}

// UUIDs are written in canonical string form. Null reads as uuid.Nil,
// matching the string leniency.
func readUUID(cell *value.Value) (uuid.UUID, error) {
	if cell.IsNull() {
		return uuid.Nil, nil
	}
	s, err := cell.AsStr()
	if err != nil {
		return uuid.Nil, invalidType("uuid", cell.Kind())
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, conversion("invalid uuid %q: %v", s, err)
	}
	return id, nil
}

func writeUUID(id uuid.UUID) *value.Value {
	return value.Str(id.String())
}

// Decimals are written as strings so no precision is lost; numbers are
// accepted on read.
func readDecimal(cell *value.Value) (decimal.Decimal, error) {
	var text string
	switch cell.Kind() {
	case value.KindString:
		text, _ = cell.AsStr()
	case value.KindNumber:
		n, _ := cell.AsNumber()
		text = n.String()
	default:
		return decimal.Zero, invalidType("decimal", cell.Kind())
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, conversion("invalid decimal %q: %v", text, err)
	}
	return d, nil
}

func writeDecimal(d decimal.Decimal) *value.Value {
	return value.Str(d.String())
}

func readTime(cell *value.Value) (time.Time, error) {
	s, err := cell.AsStr()
	if err != nil {
		return time.Time{}, invalidType("time", cell.Kind())
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, conversion("invalid time %q: %v", s, err)
	}
	return t, nil
}

func writeTime(t time.Time) *value.Value {
	return value.Str(t.Format(time.RFC3339Nano))
}
