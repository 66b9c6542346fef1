package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Neumenon/coltab/table"
)

// EnvPrefix prefixes environment overrides, e.g. COLTAB_OUTPUT_FORMAT.
const EnvPrefix = "COLTAB"

// ColumnConfig declares one column of the table schema.
type ColumnConfig struct {
	Field    string `mapstructure:"field"`
	Name     string `mapstructure:"name"`
	Type     string `mapstructure:"type"`
	Order    *int   `mapstructure:"order"`
	Skip     bool   `mapstructure:"skip"`
	Default  bool   `mapstructure:"default"`
	Optional bool   `mapstructure:"optional"`
}

type ColtabConfig struct {
	Schema struct {
		Columns []ColumnConfig `mapstructure:"columns"`
	} `mapstructure:"schema"`

	Output struct {
		Format string `mapstructure:"format"`
		Indent string `mapstructure:"indent"`
		Dir    string `mapstructure:"dir"`
	} `mapstructure:"output"`

	Workers  int    `mapstructure:"workers"`
	LogLevel string `mapstructure:"log_level"`
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"format":    "output.format",
	"indent":    "output.indent",
	"out-dir":   "output.dir",
	"workers":   "workers",
	"log-level": "log_level",
}

// Flags returns the flag set shared by the coltab subcommands.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "config file (YAML)")
	fs.StringP("format", "f", "json", "output format: json or yaml")
	fs.String("indent", "", "JSON indentation; compact when empty")
	fs.StringP("out-dir", "o", "", "output directory; next to each input when empty")
	fs.IntP("workers", "w", 4, "files converted concurrently")
	fs.String("log-level", "info", "debug, info, warn or error")
	return fs
}

// ConfigPath returns the config file named by the --config flag, or by
// COLTAB_CONFIG when the flag is not set.
func ConfigPath(flags *pflag.FlagSet) (string, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	if err := v.BindEnv("config"); err != nil {
		return "", fmt.Errorf("bind env config: %w", err)
	}
	if flags != nil {
		if f := flags.Lookup("config"); f != nil {
			if err := v.BindPFlag("config", f); err != nil {
				return "", fmt.Errorf("bind flag config: %w", err)
			}
		}
	}
	return v.GetString("config"), nil
}

// LoadConfig reads the configuration. Values come from, highest first:
// changed flags, COLTAB_* environment variables, the config file at path
// (skipped when path is empty) and built-in defaults.
func LoadConfig(path string, flags *pflag.FlagSet) (*ColtabConfig, error) {
	v := viper.New()
	v.SetDefault("output.format", "json")
	v.SetDefault("output.indent", "")
	v.SetDefault("output.dir", "")
	v.SetDefault("workers", 4)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg ColtabConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the values that do not depend on the schema.
func (c *ColtabConfig) Validate() error {
	switch c.Output.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("invalid config: output.format %q: expected json or yaml", c.Output.Format)
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid config: workers must be at least 1, got %d", c.Workers)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Level parses LogLevel.
func (c *ColtabConfig) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// ColumnSpecs converts the configured columns to table column specs.
func (c *ColtabConfig) ColumnSpecs() []table.ColumnSpec {
	specs := make([]table.ColumnSpec, len(c.Schema.Columns))
	for i, col := range c.Schema.Columns {
		specs[i] = table.ColumnSpec{
			Field:    col.Field,
			Name:     col.Name,
			Type:     col.Type,
			Order:    col.Order,
			Skip:     col.Skip,
			Default:  col.Default,
			Optional: col.Optional,
		}
	}
	return specs
}

// ErrNoColumns is returned by DynamicSchema when schema.columns is empty.
var ErrNoColumns = errors.New("config: no columns in schema.columns")

// DynamicSchema builds the table schema from schema.columns.
func (c *ColtabConfig) DynamicSchema() (*table.DynamicSchema, error) {
	if len(c.Schema.Columns) == 0 {
		return nil, ErrNoColumns
	}
	s, err := table.NewDynamicSchema(c.ColumnSpecs())
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}
	return s, nil
}
