package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/importer/catalog"
	"github.com/google/subcommands"
)

// catalogCmd is the top-level command for asset catalog operations.
type catalogCmd struct{}

func (*catalogCmd) Name() string     { return "catalog" }
func (*catalogCmd) Synopsis() string { return "asset catalog commands" }
func (*catalogCmd) Usage() string {
	return `catalog <subcommand> <options>

Asset catalog commands.
`
}
func (c *catalogCmd) SetFlags(f *flag.FlagSet) {}

func (c *catalogCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, "catalog")
	commander.Register(&catalogExportCmd{}, "")
	commander.Register(&catalogLookupCmd{}, "")
	return commander.Execute(ctx, args...)
}

// loadCatalog loads the configured catalog into a workspace.
func loadCatalog(ctx context.Context) (*workspace, error) {
	w, err := openWorkspace(ctx)
	if err != nil {
		return nil, err
	}
	if w.refresher == nil || w.dir.Len() == 0 {
		w.Close()
		return nil, fmt.Errorf("no asset catalog loaded (use -catalog or $%s)", EnvCatalog)
	}
	return w, nil
}

type catalogExportCmd struct{}

func (*catalogExportCmd) Name() string     { return "export" }
func (*catalogExportCmd) Synopsis() string { return "save the asset catalog to a jsonl file" }
func (*catalogExportCmd) Usage() string {
	return `pci catalog export <file.jsonl>

  Save the assets of the configured catalog in a file that can be used later
  with -catalog, for instance to work offline.
`
}
func (c *catalogExportCmd) SetFlags(f *flag.FlagSet) {}

func (c *catalogExportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: export requires a file")
		return subcommands.ExitUsageError
	}
	w, err := loadCatalog(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer w.Close()

	assets := w.dir.Assets()
	if err := catalog.WriteFile(f.Arg(0), assets); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Saved %d assets to %s\n", len(assets), f.Arg(0))
	return subcommands.ExitSuccess
}

type catalogLookupCmd struct{}

func (*catalogLookupCmd) Name() string     { return "lookup" }
func (*catalogLookupCmd) Synopsis() string { return "show the assets of some symbols" }
func (*catalogLookupCmd) Usage() string {
	return `pci catalog lookup <symbol|id>...

  Show the catalog asset that each symbol or id resolves to.
`
}
func (c *catalogLookupCmd) SetFlags(f *flag.FlagSet) {}

func (c *catalogLookupCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w, err := loadCatalog(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer w.Close()

	status := subcommands.ExitSuccess
	for _, ref := range f.Args() {
		a, err := w.asset(ref)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("%s\t%d\t%s\t%s\t%s\n", a.Symbol, a.ID, a.Currency, a.ISIN, a.Name)
	}
	return status
}
