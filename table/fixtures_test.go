package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Neumenon/coltab/value"
)

// ============================================================
// Test Fixtures
// ============================================================

type User struct {
	ID   uint64 `table:"id"`
	Name string `table:"name"`
	Role string `table:"role"`
}

type Product struct {
	ID       uint64  `table:"productId"`
	Name     string  `table:"productName"`
	Price    float64 `table:"price"`
	Category string  `table:"category,default"`
}

// Employee has no tags: column names are the Go field names.
type Employee struct {
	ID         int64
	Name       string
	Department string
	Salary     float64
	Active     bool
}

func makeUsers() []User {
	return []User{
		{ID: 1, Name: "Alice", Role: "admin"},
		{ID: 2, Name: "Bob", Role: "user"},
	}
}

// mustJSON parses JSON text into a value.
func mustJSON(t *testing.T, src string) *value.Value {
	t.Helper()
	v, err := value.FromJSON([]byte(src))
	require.NoError(t, err)
	return v
}

// requireValue fails unless got equals the value parsed from want.
func requireValue(t *testing.T, want string, got *value.Value) {
	t.Helper()
	require.True(t, value.Equal(mustJSON(t, want), got), "want %s\ngot  %s", want, got)
}
