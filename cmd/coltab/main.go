// coltab - columnar table CLI tool
//
// Usage:
//
//	coltab encode  [flags] [files...]   Convert arrays of records to tables
//	coltab decode  [flags] [files...]   Convert tables to arrays of records
//	coltab columns [flags]              Print the configured column header
//	coltab version                      Print version info
//
// The column layout comes from the schema.columns list of the config file.
// If no file is given, reads from stdin and writes to stdout.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/Neumenon/coltab/internal/config"
	"github.com/Neumenon/coltab/value"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "encode", "decode", "columns":
	case "version", "-v", "--version":
		fmt.Printf("coltab %s\n", version)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	fs := config.Flags("coltab " + cmd)
	if err := fs.Parse(os.Args[2:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	cfgPath, err := config.ConfigPath(fs)
	if err != nil {
		fatal("%v", err)
	}
	cfg, err := config.LoadConfig(cfgPath, fs)
	if err != nil {
		fatal("%v", err)
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	schema, err := cfg.DynamicSchema()
	if err != nil {
		fatal("%v", err)
	}

	if cmd == "columns" {
		out, err := render(value.Strs(schema.Columns()...), cfg.Output.Format, cfg.Output.Indent)
		if err != nil {
			fatal("render columns: %v", err)
		}
		os.Stdout.Write(out)
		return
	}

	c := &converter{
		schema:  schema,
		dir:     toTable,
		format:  cfg.Output.Format,
		indent:  cfg.Output.Indent,
		outDir:  cfg.Output.Dir,
		workers: cfg.Workers,
		log:     logger,
	}
	if cmd == "decode" {
		c.dir = toRecords
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Debug("starting", "cmd", cmd, "files", fs.NArg(), "workers", c.workers)
	err = c.run(ctx, fs.Args(), os.Stdin, os.Stdout)
	if err != nil {
		logger.Error(cmd+" failed", "err", err)
	}
	stop()
	os.Exit(exitCode(err))
}

func printUsage() {
	fmt.Fprint(os.Stderr, `coltab - columnar table CLI tool

Usage:
  coltab encode  [flags] [files...]   Convert arrays of records to tables
  coltab decode  [flags] [files...]   Convert tables to arrays of records
  coltab columns [flags]              Print the configured column header
  coltab version                      Print version info

Flags:
  -c, --config FILE       Config file (YAML) holding schema.columns
  -f, --format FORMAT     Output format: json (default) or yaml
      --indent STRING     JSON indentation; compact when empty
  -o, --out-dir DIR       Output directory; next to each input when empty
  -w, --workers N         Files converted concurrently (default: 4)
      --log-level LEVEL   debug, info, warn or error (default: info)

Every flag can also be set with a COLTAB_ environment variable, e.g.
COLTAB_OUTPUT_FORMAT=yaml or COLTAB_WORKERS=8.

Input files ending in .yaml or .yml are read as YAML, others as JSON. Each
file is written to <out-dir>/<name>.table.<format> (encode) or
<out-dir>/<name>.records.<format> (decode).

If no file is given, reads from stdin (JSON, or YAML with --format yaml).

Examples:
  echo '[{"id":1,"name":"Alice"}]' | coltab encode -c users.yaml
  # Output: {"columns":["id","name"],"rows":[[1,"Alice"]]}

  coltab decode -c users.yaml --indent "  " users.table.json
  coltab encode -c users.yaml -f yaml -o out/ a.json b.json c.yaml
`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "coltab: "+format+"\n", args...)
	os.Exit(1)
}
