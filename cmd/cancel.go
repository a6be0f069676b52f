package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type cancelCmd struct{}

func (*cancelCmd) Name() string     { return "cancel" }
func (*cancelCmd) Synopsis() string { return "drop the import draft" }
func (*cancelCmd) Usage() string {
	return `pci cancel

  Drop the draft and all its transactions. Nothing is sent to the portfolio.
`
}

func (c *cancelCmd) SetFlags(f *flag.FlagSet) {}

func (c *cancelCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w, err := openWorkspace(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer w.Close()

	n := len(w.session.Candidates())
	if err := w.session.Cancel(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Import cancelled, %d transactions dropped\n", n)
	return subcommands.ExitSuccess
}
