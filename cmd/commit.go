package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/importer"
	"github.com/etnz/importer/renderer"
	"github.com/google/subcommands"
)

type commitCmd struct {
	portfolio int64
}

func (*commitCmd) Name() string     { return "commit" }
func (*commitCmd) Synopsis() string { return "create the transactions of the draft in a portfolio" }
func (*commitCmd) Usage() string {
	return `pci commit -p <portfolio>

  Send all the transactions of the draft to the portfolio service in one batch.

  Nothing is sent while a transaction is incomplete. When every transaction
  is created the draft is cleared, otherwise the draft is kept entirely and
  the errors of the service are listed.
`
}

func (c *commitCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.portfolio, "p", 0, "id of the target portfolio. Defaults to $"+EnvPortfolio)
}

func (c *commitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := portfolioID(c.portfolio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	w, err := openWorkspace(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer w.Close()

	out, err := w.session.Commit(ctx, id)
	var incomplete *importer.IncompleteError
	switch {
	case errors.As(err, &incomplete):
		printReview(w, renderer.ReviewOptions{OnlyIssues: true, SkipSource: true})
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	case errors.Is(err, importer.ErrNoPortfolio):
		fmt.Fprintf(os.Stderr, "Error: %v (use -p or $%s)\n", err, EnvPortfolio)
		return subcommands.ExitUsageError
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderOutcome(&renderer.Outcome{Outcome: out, PortfolioID: id}))
	if out.Status != importer.Committed {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
