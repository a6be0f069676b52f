package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/importer/renderer"
	"github.com/google/subcommands"
)

// reviewCmd holds the flags for the 'review' subcommand.
type reviewCmd struct {
	issues   bool
	noSource bool
	asJSON   bool
}

func (*reviewCmd) Name() string { return "review" }

func (*reviewCmd) Synopsis() string { return "review the transactions of the import draft" }
func (*reviewCmd) Usage() string {
	return `pci review [-issues] [-no-source] [-json]

  Print the transactions of the draft, incomplete ones first, then by date.
  Incomplete transactions are listed with what they miss.
`
}

func (c *reviewCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.issues, "issues", false, "only show the transactions that block the commit or need a second look")
	f.BoolVar(&c.noSource, "no-source", false, "do not show the statement information")
	f.BoolVar(&c.asJSON, "json", false, "print the transactions as json instead")
}

func (c *reviewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w, err := openWorkspace(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer w.Close()

	if c.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(w.session.Candidates()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	printReview(w, renderer.ReviewOptions{OnlyIssues: c.issues, SkipSource: c.noSource})
	return subcommands.ExitSuccess
}

// printReview prints the review of the draft.
func printReview(w *workspace, opts renderer.ReviewOptions) {
	r := renderer.NewReview(w.session.Candidates(), w.dir, w.session.Source())
	printMarkdown(renderer.RenderReview(r, opts))
}
