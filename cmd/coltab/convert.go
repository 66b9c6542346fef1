package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Neumenon/coltab/table"
	"github.com/Neumenon/coltab/value"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// direction selects what a converter produces.
type direction int

const (
	toTable   direction = iota // array of records -> table
	toRecords                  // table -> array of records
)

func (d direction) suffix() string {
	if d == toTable {
		return "table"
	}
	return "records"
}

// opposite is the direction that reads what d writes.
func (d direction) opposite() direction {
	if d == toTable {
		return toRecords
	}
	return toTable
}

// converter turns documents into tables or back using one dynamic schema.
type converter struct {
	schema  *table.DynamicSchema
	dir     direction
	format  string // output format
	indent  string
	outDir  string
	workers int
	log     *slog.Logger
}

// convert transforms one parsed document.
func (c *converter) convert(in *value.Value) (*value.Value, int, error) {
	switch c.dir {
	case toTable:
		records, err := in.AsArray()
		if err != nil {
			return nil, 0, fmt.Errorf("input must be an array of records, got %s", in.Kind())
		}
		tbl, err := c.schema.Encode(records)
		if err != nil {
			return nil, 0, err
		}
		return tbl, len(records), nil
	default:
		records, err := c.schema.Decode(in)
		if err != nil {
			return nil, 0, err
		}
		return value.Array(records...), len(records), nil
	}
}

// run converts stdin to stdout when no files are given, otherwise each
// file concurrently.
func (c *converter) run(ctx context.Context, files []string, stdin io.Reader, stdout io.Writer) error {
	if len(files) == 0 {
		return c.stream(stdin, stdout)
	}

	seen := make(map[string]string, len(files))
	for _, path := range files {
		dst := c.outputPath(path)
		if prev, ok := seen[dst]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", prev, path, dst)
		}
		seen[dst] = path
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for _, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := c.convertFile(path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// stream converts one document read from r. Input is JSON unless the
// output format is YAML.
func (c *converter) stream(r io.Reader, w io.Writer) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	out, _, err := c.convertBytes(data, c.format)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func (c *converter) convertFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	out, rows, err := c.convertBytes(data, formatOf(path, formatJSON))
	if err != nil {
		return err
	}

	dst := c.outputPath(path)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return err
	}

	c.log.Info("converted", "src", path, "dst", dst, "rows", rows)
	return nil
}

func (c *converter) convertBytes(data []byte, inFormat string) ([]byte, int, error) {
	in, err := parse(data, inFormat)
	if err != nil {
		return nil, 0, err
	}
	v, rows, err := c.convert(in)
	if err != nil {
		return nil, 0, err
	}
	out, err := render(v, c.format, c.indent)
	if err != nil {
		return nil, 0, err
	}
	return out, rows, nil
}

// outputPath names the output of src: <dir>/<base>.<table|records>.<format>.
// A suffix written by the other direction is dropped from base, so
// users.table.json decodes to users.records.json.
func (c *converter) outputPath(src string) string {
	dir := c.outDir
	if dir == "" {
		dir = filepath.Dir(src)
	}
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	base = strings.TrimSuffix(base, "."+c.dir.opposite().suffix())
	return filepath.Join(dir, base+"."+c.dir.suffix()+"."+c.format)
}

// formatOf picks the format from the file extension.
func formatOf(path, fallback string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	case ".json":
		return formatJSON
	default:
		return fallback
	}
}

func parse(data []byte, format string) (*value.Value, error) {
	if format == formatYAML {
		return value.FromYAML(data)
	}
	return value.FromJSON(data)
}

func render(v *value.Value, format, indent string) ([]byte, error) {
	if format == formatYAML {
		return value.ToYAML(v)
	}
	out, err := value.ToJSONIndent(v, indent)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// exitCode maps a conversion failure to the process status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}
