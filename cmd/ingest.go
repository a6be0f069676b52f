package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/importer/renderer"
	"github.com/etnz/importer/source"
	"github.com/google/subcommands"
)

type ingestCmd struct {
	provider string
	mapping  string
	rows     string
	remote   bool
	force    bool
}

func (*ingestCmd) Name() string     { return "ingest" }
func (*ingestCmd) Synopsis() string { return "start an import from a statement file" }
func (*ingestCmd) Usage() string {
	return `pci ingest [-provider <id>] [-mapping <file.yaml>] [-rows <jsonpath>] [-remote] [-f] <file>

  Read the transactions of a statement and start a new import draft.

  Local files can be the json result of the parsing service, a csv or an xlsx
  table with a header row. With -remote the file is uploaded to the parsing
  service of the portfolio service instead, -provider is then required.

  Symbols are resolved against the asset catalog, and missing amounts are
  derived when possible. Use 'pci review' to see what is left to fix.
`
}

func (c *ingestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.provider, "provider", "", "statement provider id, see 'pci providers'")
	f.StringVar(&c.mapping, "mapping", "", "yaml file mapping table headers to transaction fields")
	f.StringVar(&c.rows, "rows", "", "jsonpath of the transactions in a json statement (default "+source.DefaultRowsPath+")")
	f.BoolVar(&c.remote, "remote", false, "parse the file with the portfolio service")
	f.BoolVar(&c.force, "f", false, "replace the current draft if there is one")
}

func (c *ingestCmd) init(f *flag.FlagSet) error {
	if f.NArg() != 1 {
		return errors.New("ingest requires exactly one statement file")
	}
	if c.remote && c.provider == "" {
		return errors.New("-remote requires a -provider")
	}
	return nil
}

func (c *ingestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.init(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	w, err := openWorkspace(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer w.Close()

	if n := len(w.session.Candidates()); n > 0 && !c.force {
		fmt.Fprintf(os.Stderr, "Error: a draft of %d transactions is in progress, commit or cancel it first, or use -f to replace it\n", n)
		return subcommands.ExitFailure
	}

	st, err := c.read(ctx, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := w.session.Start(st.Rows, st.Source); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printReview(w, renderer.ReviewOptions{})
	return subcommands.ExitSuccess
}

// read decodes the statement, locally or with the parsing service.
func (c *ingestCmd) read(ctx context.Context, path string) (*source.Statement, error) {
	if c.remote {
		api, err := client()
		if err != nil {
			return nil, err
		}
		r, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return api.ParseStatement(ctx, c.provider, filepath.Base(path), r)
	}

	opts := source.Options{RowsPath: c.rows, Provider: c.provider}
	if c.mapping != "" {
		m, err := source.LoadMapping(c.mapping)
		if err != nil {
			return nil, err
		}
		opts.Mapping = m
	}
	return source.Open(path, opts)
}
