package catalog

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/etnz/importer"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule refreshes the directory every five minutes.
const DefaultSchedule = "@every 5m"

// Index receives the full catalog on each refresh.
type Index interface {
	Replace(assets []importer.Asset)
}

// Refresher loads the catalog from a Source into an Index, once or on a
// cron schedule.
type Refresher struct {
	src     Source
	index   Index
	timeout time.Duration
	cron    *cron.Cron
}

// NewRefresher returns a Refresher from 'src' to 'index'.
func NewRefresher(src Source, index Index) *Refresher {
	return &Refresher{src: src, index: index, timeout: time.Minute}
}

// Refresh loads the catalog now. On error the index is left untouched.
func (r *Refresher) Refresh(ctx context.Context) (int, error) {
	assets, err := r.src.Assets(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot refresh the asset catalog: %w", err)
	}
	r.index.Replace(assets)
	return len(assets), nil
}

// Start refreshes the catalog according to 'schedule', a cron expression or
// a descriptor such as "@every 1m". Start does not wait for the first
// refresh.
func (r *Refresher) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if _, err := r.Refresh(ctx); err != nil {
			log.Printf("warning: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	r.cron = c
	c.Start()
	return nil
}

// Stop stops the schedule and waits for a running refresh to complete.
func (r *Refresher) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
	r.cron = nil
}
