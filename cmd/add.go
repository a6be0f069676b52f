package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/importer"
	"github.com/etnz/importer/renderer"
	"github.com/google/subcommands"
)

// addCmd inserts a transaction by hand, each flag is an edit of the new row.
type addCmd struct {
	values map[importer.Field]*string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a transaction to the import draft" }
func (*addCmd) Usage() string {
	return `pci add [-date <date>] [-type <type>] [-symbol <symbol>] [-quantity <q>] [-price <p>] [-fees <f>] [-total_amount <t>] [-name <name>] [-notes <notes>]

  Add a transaction to the draft. Without flags the transaction is a buy dated
  today with all amounts to fill.

  Flags are applied in the order above, as if each was edited in turn: the
  symbol is resolved against the asset catalog and missing amounts are derived.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	c.values = make(map[importer.Field]*string)
	for _, field := range importer.Fields {
		c.values[field] = f.String(string(field), "", "transaction "+string(field))
	}
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments %q, values are given with flags\n", f.Args())
		return subcommands.ExitUsageError
	}

	w, err := openWorkspace(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer w.Close()

	tx := importer.NewCandidate()
	for _, field := range importer.Fields {
		value := *c.values[field]
		if value == "" {
			continue
		}
		if err := tx.Apply(w.dir, field, value); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if err := w.session.Add(tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Added transaction %s\n", tx.ID[:renderer.ShortID])
	if reasons := importer.Reasons(*tx); len(reasons) > 0 {
		fmt.Printf("It cannot be committed yet: %v\n", reasons)
	}
	return subcommands.ExitSuccess
}
