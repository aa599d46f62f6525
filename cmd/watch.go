package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/etnz/stk"
	"github.com/google/subcommands"
)

type watchCmd struct {
	app    *App
	every  time.Duration
	rounds int
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "refresh the prices periodically" }
func (*watchCmd) Usage() string {
	return `stk watch [-every <duration>] [-n <rounds>]

  Refreshes all the current prices right away and then periodically, until
  interrupted or after n rounds.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.every, "every", c.app.Config.Watch.Every.Duration, "time between two refreshes")
	f.IntVar(&c.rounds, "n", 0, "number of refreshes, 0 runs until interrupted")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.every < time.Second {
		return c.app.usage("-every must be at least 1s")
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, done, err := c.app.engine(ctx)
	defer done()
	if err != nil {
		return c.app.fail("opening the wallet", err)
	}

	ticker := time.NewTicker(c.every)
	defer ticker.Stop()
	for round := 1; ; round++ {
		if err := c.refresh(ctx, e); err != nil {
			if ctx.Err() != nil {
				return subcommands.ExitSuccess
			}
			// a failed round is retried on the next tick.
			c.app.Log.Error().Err(err).Msg("refresh failed")
		}
		if c.rounds > 0 && round >= c.rounds {
			return subcommands.ExitSuccess
		}
		select {
		case <-ctx.Done():
			return subcommands.ExitSuccess
		case <-ticker.C:
		}
	}
}

func (c *watchCmd) refresh(ctx context.Context, e *stk.Engine) error {
	updated, missing, err := e.RefreshAll(ctx)
	if err != nil {
		return err
	}
	s, err := e.State(ctx)
	if err != nil {
		return err
	}
	at := c.app.Now().In(c.app.Loc).Format(time.TimeOnly)
	fmt.Fprintf(c.app.Out, "%s %d prices updated, total value %s\n", at, len(updated), s.TotalValue())
	if len(missing) > 0 {
		fmt.Fprintf(c.app.Out, "%s no price for %s\n", at, strings.Join(missing, ", "))
	}
	return nil
}
