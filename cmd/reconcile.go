package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type reconcileCmd struct{}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "resolve pending symbols against the asset catalog" }
func (*reconcileCmd) Usage() string {
	return `pci reconcile

  Load the asset catalog and link the transactions of the draft whose symbol
  is now known. Transactions already linked are never changed.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {}

func (c *reconcileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w, err := openWorkspace(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer w.Close()
	if w.refresher == nil {
		fmt.Fprintf(os.Stderr, "Error: no asset catalog configured (use -catalog or $%s)\n", EnvCatalog)
		return subcommands.ExitUsageError
	}

	// Loading the catalog already reconciled the draft, counting what is
	// pending is enough.
	pending := 0
	for _, c := range w.session.Candidates() {
		if !c.Resolved() && c.Symbol != "" {
			pending++
		}
	}
	fmt.Printf("%d assets in the catalog, %d symbols still unknown, %d transactions to fix\n", w.dir.Len(), pending, w.session.Incomplete())
	return subcommands.ExitSuccess
}
