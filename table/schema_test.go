package table

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// ============================================================
// Schema Resolution Tests
// ============================================================

func TestSchemaColumns(t *testing.T) {
	s := MustSchema[User]()
	require.Equal(t, []string{"id", "name", "role"}, s.Columns())
	require.Equal(t, 3, s.Len())
}

func TestSchemaFieldNamesWithoutTags(t *testing.T) {
	s := MustSchema[Employee]()
	require.Equal(t, []string{"ID", "Name", "Department", "Salary", "Active"}, s.Columns())
}

func TestSchemaOrderPrecedence(t *testing.T) {
	type rec struct {
		A string `table:"a"`
		B string `table:"b,order=0"`
	}

	s := MustSchema[rec]()
	require.Equal(t, []string{"b", "a"}, s.Columns())
}

func TestSchemaOrderIsStable(t *testing.T) {
	type rec struct {
		C string `table:"c,order=2"`
		A string `table:"a"`
		B string `table:"b,order=1"`
		D string `table:"d"`
		E string `table:"e,order=1"`
	}

	s := MustSchema[rec]()
	require.Equal(t, []string{"b", "e", "c", "a", "d"}, s.Columns())
}

func TestSchemaSkip(t *testing.T) {
	type rec struct {
		ID      int    `table:"id"`
		Cache   string `table:"-"`
		Scratch []byte `table:"scratch,skip"`
		hidden  string
		Name    string `table:"name"`
	}

	s := MustSchema[rec]()
	require.Equal(t, []string{"id", "name"}, s.Columns())
	_ = rec{hidden: ""}
}

func TestSchemaRename(t *testing.T) {
	s := MustSchema[Product]()
	require.Equal(t, []string{"productId", "productName", "price", "category"}, s.Columns())
	require.NotContains(t, s.Columns(), "ID")
	require.NotContains(t, s.Columns(), "Name")
}

func TestSchemaDescriptors(t *testing.T) {
	type rec struct {
		ID   uint64 `table:"productId,order=3"`
		Kind string `table:",default"`
	}

	got := MustSchema[rec]().Descriptors()
	require.Equal(t, []Column{
		{Field: "ID", Name: "productId", Order: 3, HasOrder: true},
		{Field: "Kind", Name: "Kind", Default: true},
	}, got)
}

func TestSchemaColumnsReturnsCopy(t *testing.T) {
	s := MustSchema[User]()
	cols := s.Columns()
	cols[0] = "changed"
	require.Equal(t, "id", s.Columns()[0])
}

func TestSchemaWithFieldOverridesTags(t *testing.T) {
	s, err := NewSchema[User](
		WithField("Role", Rename("userRole"), Order(0)),
		WithField("Name", Skip()),
	)
	require.NoError(t, err)
	require.Equal(t, []string{"userRole", "id"}, s.Columns())

	s, err = NewSchema[User](WithField("Role", DefaultOnMissing()))
	require.NoError(t, err)
	require.True(t, s.Descriptors()[2].Default)
}

func TestSchemaWithTagKey(t *testing.T) {
	type rec struct {
		ID   int    `col:"identifier" table:"ignored"`
		Name string `col:"-"`
	}

	s, err := NewSchema[rec](WithTagKey("col"))
	require.NoError(t, err)
	require.Equal(t, []string{"identifier"}, s.Columns())
}

func TestSchemaDuplicateNamesAllowed(t *testing.T) {
	type rec struct {
		A string `table:"x"`
		B string `table:"x"`
	}

	s, err := NewSchema[rec]()
	require.NoError(t, err)
	require.Equal(t, []string{"x", "x"}, s.Columns())
}

func TestSchemaErrors(t *testing.T) {
	type badOrder struct {
		A int `table:"a,order=-1"`
	}
	type badOrderText struct {
		A int `table:"a,order=first"`
	}
	type unknownAttr struct {
		A int `table:"a,required"`
	}
	type defaultWithValue struct {
		A int `table:"a,default=1"`
	}
	type mapField struct {
		A map[string]int
	}
	type sliceField struct {
		A []string
	}
	type uintptrField struct {
		A uintptr
	}

	tests := []struct {
		name  string
		build func() error
		field string
	}{
		{"negative order", func() error { _, err := NewSchema[badOrder](); return err }, "A"},
		{"non-numeric order", func() error { _, err := NewSchema[badOrderText](); return err }, "A"},
		{"unknown attribute", func() error { _, err := NewSchema[unknownAttr](); return err }, "A"},
		{"default with value", func() error { _, err := NewSchema[defaultWithValue](); return err }, "A"},
		{"map field", func() error { _, err := NewSchema[mapField](); return err }, "A"},
		{"slice field", func() error { _, err := NewSchema[sliceField](); return err }, "A"},
		{"uintptr field", func() error { _, err := NewSchema[uintptrField](); return err }, "A"},
		{"unknown WithField", func() error { _, err := NewSchema[User](WithField("Email")); return err }, "Email"},
		{"empty rename", func() error { _, err := NewSchema[User](WithField("ID", Rename(""))); return err }, "ID"},
		{"negative Order", func() error { _, err := NewSchema[User](WithField("ID", Order(-2))); return err }, "ID"},
		{"not a struct", func() error { _, err := NewSchema[int](); return err }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			var se *SchemaError
			require.ErrorAs(t, err, &se)
			require.Equal(t, tt.field, se.Field)
		})
	}
}

func TestSchemaUnknownAttributeMessage(t *testing.T) {
	type rec struct {
		A int `table:"a,required"`
	}

	_, err := NewSchema[rec]()
	require.EqualError(t, err,
		`table: table.rec.A: unknown attribute "required": expected rename, skip, default or order`)
}

func TestSkippedFieldMayHaveUnsupportedType(t *testing.T) {
	type rec struct {
		ID    int            `table:"id"`
		Index map[string]int `table:"-"`
	}

	_, err := NewSchema[rec]()
	require.NoError(t, err)
}

func TestMustSchemaPanics(t *testing.T) {
	require.Panics(t, func() { MustSchema[string]() })
}

func TestForReturnsSharedSchema(t *testing.T) {
	a, err := For[User]()
	require.NoError(t, err)
	b, err := For[User]()
	require.NoError(t, err)
	require.Same(t, a, b)

	_, err = For[[]User]()
	require.Error(t, err)
}

func TestSchemaConcurrentUse(t *testing.T) {
	s := MustSchema[User]()
	tbl := s.Encode(makeUsers())

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			users, err := s.Decode(tbl)
			if err == nil && len(users) != 2 {
				err = &Error{Kind: KindRowOutOfBounds, Index: 2, Len: len(users)}
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}
