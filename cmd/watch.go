package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/importer/catalog"
	"github.com/google/subcommands"
)

type watchCmd struct {
	schedule string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "keep the draft reconciled with the asset catalog" }
func (*watchCmd) Usage() string {
	return `pci watch [-every <schedule>]

  Reload the asset catalog on a schedule and resolve the pending symbols of
  the draft each time, until interrupted.

  The schedule is a cron expression, or a descriptor like "@every 1m".
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.schedule, "every", catalog.DefaultSchedule, "catalog refresh schedule")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	// listeners run in no particular order, reconcile before counting.
	cancel := w.dir.OnChanged(func() {
		if _, err := w.session.Reconcile(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		fmt.Printf("catalog refreshed: %d assets, %d transactions to fix\n", w.dir.Len(), w.session.Incomplete())
	})
	defer cancel()

	if err := w.refresher.Start(c.schedule); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer w.refresher.Stop()

	fmt.Printf("watching the catalog (%s), %d transactions to fix\n", c.schedule, w.session.Incomplete())
	<-ctx.Done()
	return subcommands.ExitSuccess
}
