// Command synthgen writes a synthetic CSV table described by a schema file.
//
//	synthgen -schema people.yaml -rows 500 -seed 42 -out people.csv
//
// The schema file is JSON when its extension is .json and YAML otherwise.
// Flags override the rows and seed given in the file. Without -out the CSV
// goes to stdout; logs always go to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JonMunkholm/synthdata/internal/config"
	"github.com/JonMunkholm/synthdata/internal/core"
	"github.com/JonMunkholm/synthdata/internal/export"
	"github.com/JonMunkholm/synthdata/internal/logging"
	"github.com/JonMunkholm/synthdata/internal/schema"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "synthgen:", err)
		os.Exit(1)
	}

	logger, flush := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.SeqURL)
	slog.SetDefault(logger)

	err = run(context.Background(), os.Args[1:], os.Stdout, cfg.Generation, logger)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		flush()
		return
	}

	logger.Debug("generation failed", "error", err)
	report(os.Stderr, err)
	flush()
	os.Exit(1)
}

// report prints err for the person at the terminal: the mapped message
// when there is one, the raw error otherwise.
func report(w io.Writer, err error) {
	if core.IsUserFacing(err) {
		fmt.Fprintln(w, "synthgen:", core.FormatUserError(err))
		return
	}
	fmt.Fprintln(w, "synthgen:", err)
}

type options struct {
	schemaPath string
	out        string
	rows       int
	seed       uint64
	seedSet    bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("synthgen", flag.ContinueOnError)
	fs.StringVar(&opts.schemaPath, "schema", "", "schema file (.json, .yaml or .yml)")
	fs.StringVar(&opts.out, "out", "", "output CSV path (default stdout)")
	fs.IntVar(&opts.rows, "rows", 0, "number of rows, overriding the schema file")
	fs.Uint64Var(&opts.seed, "seed", 0, "random seed, overriding the schema file")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			opts.seedSet = true
		}
	})

	if opts.schemaPath == "" {
		return opts, errors.New("-schema is required")
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// run generates the table described by args and writes it to stdout or
// the -out file.
func run(ctx context.Context, args []string, stdout io.Writer, gen config.GenerationConfig, logger *slog.Logger) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	doc, err := readDocument(opts.schemaPath)
	if err != nil {
		return err
	}
	if opts.rows != 0 {
		doc.Rows = opts.rows
	}
	if opts.seedSet {
		doc.Seed = &opts.seed
	}

	service := core.NewService(gen, core.NewLogAudit(logger))
	if err := service.CheckLimits(doc.Rows, len(doc.Columns)); err != nil {
		return err
	}
	req, err := doc.Request()
	if err != nil {
		return err
	}

	res, err := service.Generate(core.ContextWithSource(ctx, core.SourceCLI), req)
	if err != nil {
		return err
	}

	dest := "stdout"
	if opts.out == "" {
		if err := export.WriteCSV(stdout, res.Table); err != nil {
			return err
		}
	} else {
		dest = opts.out
		if err := writeFile(opts.out, res); err != nil {
			return err
		}
	}

	logger.Info("table written",
		"generation_id", res.ID,
		"seed", res.Seed,
		"rows", res.Table.NumRows(),
		"columns", res.Table.NumColumns(),
		"dest", dest,
	)
	return nil
}

func readDocument(path string) (schema.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.Document{}, fmt.Errorf("open schema: %w", err)
	}
	defer f.Close()
	return schema.Decode(f, schema.FormatFromPath(path))
}

func writeFile(path string, res *core.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := export.WriteCSV(f, res.Table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
