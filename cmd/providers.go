package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type providersCmd struct{}

func (*providersCmd) Name() string     { return "providers" }
func (*providersCmd) Synopsis() string { return "list the statement providers of the parsing service" }
func (*providersCmd) Usage() string {
	return `pci providers

  List the providers whose statements can be parsed with 'pci ingest -remote'.
`
}

func (c *providersCmd) SetFlags(f *flag.FlagSet) {}

func (c *providersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	api, err := client()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	providers, err := api.Providers(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	b.WriteString("| Provider | Name | Formats | Description |\n|---|---|---|---|\n")
	for _, p := range providers {
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n", p.ID, p.Name, strings.Join(p.SupportedFormats, ", "), p.Description)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
