package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/importer"
	"github.com/etnz/importer/renderer"
	"github.com/google/subcommands"
)

type editCmd struct{}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change a field of a transaction of the import draft" }
func (*editCmd) Usage() string {
	return `pci edit <id> <field> <value>

  Set a field of the transaction whose id starts with <id>.

  Fields are: date, type, symbol, name, quantity, price, fees, total_amount, notes.

  Editing an amount derives another one, keeping the statement figures as
  long as possible. The first applicable rule wins:

    1. with a total and a price, quantity = (total - fees) / price,
       unless quantity was edited
    2. with a total and a quantity, price = (total - fees) / quantity,
       unless price was edited
    3. with a quantity and a price, total = quantity * price + fees
    4. otherwise total = fees

  Editing the total never recomputes it. Editing the symbol resolves it
  against the asset catalog. An empty value clears an amount.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Error: edit requires an id, a field and a value")
		return subcommands.ExitUsageError
	}
	field, err := importer.ParseField(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	value := strings.Join(f.Args()[2:], " ")

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
	if err := w.session.Apply(id, field, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printReview(w, renderer.ReviewOptions{SkipSource: true})
	return subcommands.ExitSuccess
}
