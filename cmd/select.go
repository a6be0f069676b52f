package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type selectCmd struct{}

func (*selectCmd) Name() string     { return "select" }
func (*selectCmd) Synopsis() string { return "link a transaction to a catalog asset" }
func (*selectCmd) Usage() string {
	return `pci select <id> <asset>

  Link the transaction whose id starts with <id> to an asset of the catalog,
  given by its numeric id or its symbol. The transaction takes the symbol and
  the name of the asset.
`
}

func (c *selectCmd) SetFlags(f *flag.FlagSet) {}

func (c *selectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: select requires an id and an asset")
		return subcommands.ExitUsageError
	}

	w, err := openWorkspace(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer w.Close()

	id, err := w.lookup(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	a, err := w.asset(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := w.session.SelectAsset(id, a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Transaction %s is now %s (%s, asset %d)\n", id, a.Symbol, a.Name, a.ID)
	return subcommands.ExitSuccess
}
