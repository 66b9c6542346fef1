package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Neumenon/coltab/value"
)

// ============================================================
// Table Decoder Tests
// ============================================================

const usersTable = `{
	"columns": ["id", "name", "role"],
	"rows": [[1, "Alice", "admin"], [2, "Bob", "user"]]
}`

func TestDecodeUsers(t *testing.T) {
	users, err := MustSchema[User]().Decode(mustJSON(t, usersTable))
	require.NoError(t, err)
	require.Equal(t, makeUsers(), users)
}

func TestDecodeRenameAndDefault(t *testing.T) {
	tbl := mustJSON(t, `{
		"columns": ["productId", "productName", "price"],
		"rows": [[100, "Widget", 5.99]]
	}`)

	products, err := MustSchema[Product]().Decode(tbl)
	require.NoError(t, err)
	require.Equal(t, []Product{{ID: 100, Name: "Widget", Price: 5.99, Category: ""}}, products)
}

func TestDecodeMatchesColumnsByName(t *testing.T) {
	tbl := mustJSON(t, `{
		"columns": ["role", "extra", "id", "name"],
		"rows": [["admin", {"x": 1}, 1, "Alice"], ["user", null, 2, "Bob"]]
	}`)

	users, err := MustSchema[User]().Decode(tbl)
	require.NoError(t, err)
	require.Equal(t, makeUsers(), users)
}

func TestDecodeEmptyRows(t *testing.T) {
	users, err := MustSchema[User]().Decode(mustJSON(t, `{"columns": ["id", "name", "role"], "rows": []}`))
	require.NoError(t, err)
	require.NotNil(t, users)
	require.Empty(t, users)
}

func TestDecodeMissingColumn(t *testing.T) {
	tbl := mustJSON(t, `{"columns": ["id", "name"], "rows": [[1, "Alice"]]}`)

	_, err := MustSchema[User]().Decode(tbl)
	require.ErrorIs(t, err, ErrMissingColumn)
	require.EqualError(t, err, "missing required column: role")

	var te *Error
	require.ErrorAs(t, err, &te)
	require.Equal(t, "role", te.Column)
}

func TestDecodeMissingColumnWithoutRows(t *testing.T) {
	// columns are resolved per row, so an empty table decodes
	users, err := MustSchema[User]().Decode(mustJSON(t, `{"columns": [], "rows": []}`))
	require.NoError(t, err)
	require.Empty(t, users)
}

func TestDecodeInvalidTable(t *testing.T) {
	tests := []struct {
		name   string
		table  string
		reason string
	}{
		{"not an object", `[1, 2]`, "table must be an object"},
		{"missing columns", `{"rows": []}`, "missing 'columns' field"},
		{"columns not array", `{"columns": "id", "rows": []}`, "'columns' must be an array"},
		{"non-string column", `{"columns": ["id", 2], "rows": []}`, "column names must be strings"},
		{"missing rows", `{"columns": ["id", "name", "role"]}`, "missing 'rows' field"},
		{"rows not array", `{"columns": ["id", "name", "role"], "rows": {}}`, "'rows' must be an array"},
		{"row not array", `{"columns": ["id", "name", "role"], "rows": [{"id": 1}]}`, "row must be an array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MustSchema[User]().Decode(mustJSON(t, tt.table))
			require.ErrorIs(t, err, ErrInvalidTable)

			var te *Error
			require.ErrorAs(t, err, &te)
			require.Equal(t, tt.reason, te.Reason)
			require.Equal(t, "invalid table: "+tt.reason, err.Error())
		})
	}
}

func TestDecodeInvalidType(t *testing.T) {
	tbl := mustJSON(t, `{"columns": ["id", "name", "role"], "rows": [["one", "Alice", "admin"]]}`)

	_, err := MustSchema[User]().Decode(tbl)
	require.ErrorIs(t, err, ErrInvalidType)

	var te *Error
	require.ErrorAs(t, err, &te)
	require.Equal(t, "uint64", te.Expected)
	require.Equal(t, "string", te.Got)
	require.Equal(t, "id", te.Column)
	require.EqualError(t, err, `invalid value type: expected uint64, got string (column "id")`)
}

func TestDecodeConversion(t *testing.T) {
	type small struct {
		U8  uint8   `table:"u8"`
		I   int     `table:"i"`
		U   uint64  `table:"u"`
		F32 float32 `table:"f32"`
	}
	sch := MustSchema[small]()

	tests := []struct {
		name   string
		row    string
		column string
		reason string
	}{
		{"u8 overflow", `[300, 0, 0, 0]`, "u8", "number 300 out of range for uint8"},
		{"negative into unsigned", `[0, 0, -1, 0]`, "u", "number -1 is not a u64"},
		{"float into int", `[0, 1.5, 0, 0]`, "i", "number 1.5 is not an i64"},
		{"integral float into int", `[0, 5.0, 0, 0]`, "i", "number 5.0 is not an i64"},
		{"float32 overflow", `[0, 0, 0, 1e300]`, "f32", "number 1e+300 out of range for float32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := mustJSON(t, `{"columns": ["u8", "i", "u", "f32"], "rows": [`+tt.row+`]}`)
			_, err := sch.Decode(tbl)
			require.ErrorIs(t, err, ErrConversion)

			var te *Error
			require.ErrorAs(t, err, &te)
			require.Equal(t, tt.column, te.Column)
			require.Equal(t, tt.reason, te.Reason)
		})
	}
}

func TestDecodeShortRow(t *testing.T) {
	tbl := mustJSON(t, `{"columns": ["id", "name", "role"], "rows": [[1]]}`)

	_, err := MustSchema[User]().Decode(tbl)
	require.ErrorIs(t, err, ErrColumnOutOfBounds)

	var te *Error
	require.ErrorAs(t, err, &te)
	require.Equal(t, 1, te.Index)
	require.Equal(t, 1, te.Len)
	require.EqualError(t, err, "column index 1 out of bounds (table has 1 columns)")
}

func TestDecodeExtraCellsIgnored(t *testing.T) {
	tbl := mustJSON(t, `{"columns": ["id", "name", "role"], "rows": [[1, "Alice", "admin", "surplus", 7]]}`)

	users, err := MustSchema[User]().Decode(tbl)
	require.NoError(t, err)
	require.Equal(t, []User{{ID: 1, Name: "Alice", Role: "admin"}}, users)
}

func TestDecodeDuplicateColumnLastWins(t *testing.T) {
	tbl := mustJSON(t, `{"columns": ["id", "name", "role", "name"], "rows": [[1, "first", "admin", "second"]]}`)

	users, err := MustSchema[User]().Decode(tbl)
	require.NoError(t, err)
	require.Equal(t, "second", users[0].Name)
}

func TestDecodeNullCells(t *testing.T) {
	type rec struct {
		Name  string  `table:"name"`
		Email *string `table:"email"`
		Age   *int    `table:"age"`
	}

	tbl := mustJSON(t, `{"columns": ["name", "email", "age"], "rows": [[null, null, null], ["a", "a@x", 30]]}`)
	got, err := MustSchema[rec]().Decode(tbl)
	require.NoError(t, err)

	require.Equal(t, "", got[0].Name)
	require.Nil(t, got[0].Email)
	require.Nil(t, got[0].Age)
	require.Equal(t, "a@x", *got[1].Email)
	require.Equal(t, 30, *got[1].Age)
}

func TestDecodeNullIntoNumberFails(t *testing.T) {
	tbl := mustJSON(t, `{"columns": ["id", "name", "role"], "rows": [[null, "Alice", "admin"]]}`)

	_, err := MustSchema[User]().Decode(tbl)
	require.ErrorIs(t, err, ErrInvalidType)
}

func TestDecodeFailsFast(t *testing.T) {
	tbl := mustJSON(t, `{
		"columns": ["id", "name", "role"],
		"rows": [[1, "Alice", "admin"], [2, 3, "user"], [-3, "Eve", "user"]]
	}`)

	users, err := MustSchema[User]().Decode(tbl)
	require.Nil(t, users)

	var te *Error
	require.ErrorAs(t, err, &te)
	require.Equal(t, KindInvalidType, te.Kind)
	require.Equal(t, "name", te.Column)
}

func TestDecodeDoesNotModifyInput(t *testing.T) {
	tbl := mustJSON(t, usersTable)
	before, err := value.ToJSON(tbl)
	require.NoError(t, err)

	_, err = MustSchema[User]().Decode(tbl)
	require.NoError(t, err)

	after, err := value.ToJSON(tbl)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))
}

func TestDecodePackageLevel(t *testing.T) {
	users, err := Decode[User](mustJSON(t, usersTable))
	require.NoError(t, err)
	require.Len(t, users, 2)

	_, err = Decode[string](mustJSON(t, usersTable))
	var se *SchemaError
	require.ErrorAs(t, err, &se)
}

// ============================================================
// Row Access Tests
// ============================================================

func TestGetRow(t *testing.T) {
	tbl := mustJSON(t, usersTable)
	s := MustSchema[User]()

	bob, err := s.GetRow(tbl, 1)
	require.NoError(t, err)
	require.Equal(t, User{ID: 2, Name: "Bob", Role: "user"}, bob)

	alice, err := GetRow[User](tbl, 0)
	require.NoError(t, err)
	require.Equal(t, "Alice", alice.Name)
}

func TestGetRowOutOfBounds(t *testing.T) {
	tbl := mustJSON(t, usersTable)
	s := MustSchema[User]()

	for _, index := range []int{2, 10, -1} {
		got, err := s.GetRow(tbl, index)
		require.ErrorIs(t, err, ErrRowOutOfBounds)
		require.Equal(t, User{}, got)

		var te *Error
		require.ErrorAs(t, err, &te)
		require.Equal(t, index, te.Index)
		require.Equal(t, 2, te.Len)
	}

	_, err := s.GetRow(tbl, 2)
	require.EqualError(t, err, "row index 2 out of bounds (table has 2 rows)")
}

func TestGetRowPropagatesDecodeError(t *testing.T) {
	_, err := MustSchema[User]().GetRow(mustJSON(t, `{"columns": []}`), 0)
	require.ErrorIs(t, err, ErrInvalidTable)
	require.False(t, errors.Is(err, ErrRowOutOfBounds))
}

// ============================================================
// Table Shape Tests
// ============================================================

func TestColumnsAndRows(t *testing.T) {
	tbl := mustJSON(t, usersTable)

	cols, err := Columns(tbl)
	require.NoError(t, err)
	require.Equal(t, []string{"id", "name", "role"}, cols)

	rows, err := Rows(tbl)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	cell, err := Cell(rows[1], 1)
	require.NoError(t, err)
	name, err := cell.AsStr()
	require.NoError(t, err)
	require.Equal(t, "Bob", name)

	_, err = Cell(rows[1], 3)
	require.ErrorIs(t, err, ErrColumnOutOfBounds)
	_, err = Cell(value.Str("x"), 0)
	require.ErrorIs(t, err, ErrInvalidTable)
}
