package table

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultTagKey is the struct tag read for column configuration.
const DefaultTagKey = "table"

// fieldConfig is the configuration of one record field.
type fieldConfig struct {
	rename    string
	hasRename bool
	order     int
	hasOrder  bool
	skip      bool
	def       bool
}

// parseTag parses a tag of the form "name,order=N,default,skip".
// The name part may be empty; "-" alone skips the field.
func parseTag(tag string) (fieldConfig, error) {
	var cfg fieldConfig
	if tag == "" {
		return cfg, nil
	}
	if tag == "-" {
		cfg.skip = true
		return cfg, nil
	}

	parts := strings.Split(tag, ",")
	if name := strings.TrimSpace(parts[0]); name != "" {
		cfg.rename, cfg.hasRename = name, true
	}

	for _, part := range parts[1:] {
		key, val, hasVal := strings.Cut(strings.TrimSpace(part), "=")
		switch key {
		case "rename":
			if !hasVal || val == "" {
				return cfg, fmt.Errorf("rename requires a non-empty value")
			}
			cfg.rename, cfg.hasRename = val, true
		case "order":
			if !hasVal {
				return cfg, fmt.Errorf("order requires a value")
			}
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return cfg, fmt.Errorf("invalid order %q: must be a non-negative integer", val)
			}
			cfg.order, cfg.hasOrder = n, true
		case "skip":
			if hasVal {
				return cfg, fmt.Errorf("skip takes no value")
			}
			cfg.skip = true
		case "default":
			if hasVal {
				return cfg, fmt.Errorf("default takes no value")
			}
			cfg.def = true
		case "":
			return cfg, fmt.Errorf("empty attribute in tag %q", tag)
		default:
			return cfg, fmt.Errorf("unknown attribute %q: expected rename, skip, default or order", key)
		}
	}

	return cfg, nil
}

// ============================================================
// Field Options
// ============================================================

// FieldOption configures a field, overriding its struct tag.
type FieldOption func(*fieldConfig)

// Rename sets the column name of a field.
func Rename(name string) FieldOption {
	return func(c *fieldConfig) {
		c.rename, c.hasRename = name, true
	}
}

// Order sets the explicit position of a column. Ordered columns come
// before unordered ones, ascending.
func Order(n int) FieldOption {
	return func(c *fieldConfig) {
		c.order, c.hasOrder = n, true
	}
}

// Skip excludes a field from the table.
func Skip() FieldOption {
	return func(c *fieldConfig) {
		c.skip = true
	}
}

// DefaultOnMissing makes decoding yield the zero value when the column is
// absent from the table.
func DefaultOnMissing() FieldOption {
	return func(c *fieldConfig) {
		c.def = true
	}
}

// Option configures schema construction.
type Option func(*schemaConfig)

type schemaConfig struct {
	tagKey string
	fields []fieldOverride
}

type fieldOverride struct {
	field string
	opts  []FieldOption
}

// WithField applies opts to the named Go struct field after its tag.
func WithField(field string, opts ...FieldOption) Option {
	return func(c *schemaConfig) {
		c.fields = append(c.fields, fieldOverride{field: field, opts: opts})
	}
}

// WithTagKey reads column configuration from a different struct tag.
func WithTagKey(key string) Option {
	return func(c *schemaConfig) {
		c.tagKey = key
	}
}
