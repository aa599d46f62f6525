package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
)

type refreshCmd struct {
	app    *App
	ticker string
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "update current prices from live quotes" }
func (*refreshCmd) Usage() string {
	return `stk refresh [-t <ticker>]

  Updates the current price of one position, or of all positions. The
  purchase prices are never changed.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "ticker to refresh, all positions when omitted")
}

func (c *refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, done, err := c.app.engine(ctx)
	defer done()
	if err != nil {
		return c.app.fail("opening the wallet", err)
	}

	if c.ticker != "" {
		pos, err := e.Refresh(ctx, c.ticker)
		if err != nil {
			return c.app.fail("refreshing "+c.ticker, err)
		}
		fmt.Fprintf(c.app.Out, "%s: %s\n", pos.Ticker, pos.CurrentPrice)
		return subcommands.ExitSuccess
	}

	updated, missing, err := e.RefreshAll(ctx)
	if err != nil {
		return c.app.fail("refreshing prices", err)
	}
	for _, pos := range updated {
		fmt.Fprintf(c.app.Out, "%s: %s\n", pos.Ticker, pos.CurrentPrice)
	}
	if len(missing) > 0 {
		fmt.Fprintf(c.app.Err, "No price for %s\n", strings.Join(missing, ", "))
	}
	return subcommands.ExitSuccess
}

type removeCmd struct {
	app    *App
	ticker string
}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "drop a position without any cash movement" }
func (*removeCmd) Usage() string {
	return `stk remove -t <ticker>

  Removes the position on ticker. The wallet is not credited, use sell to
  get the proceeds.
`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "ticker symbol")
}

func (c *removeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if strings.TrimSpace(c.ticker) == "" {
		return c.app.usage("-t is required")
	}
	e, done, err := c.app.engine(ctx)
	defer done()
	if err != nil {
		return c.app.fail("opening the wallet", err)
	}
	pos, err := e.RemovePosition(ctx, c.ticker)
	if err != nil {
		return c.app.fail("removing "+c.ticker, err)
	}
	fmt.Fprintf(c.app.Out, "Removed %s %s\n", pos.Quantity, pos.Ticker)
	return subcommands.ExitSuccess
}

type clearCmd struct {
	app *App
	yes bool
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "reset the wallet and the holdings" }
func (*clearCmd) Usage() string {
	return `stk clear -y

  Deletes every transaction and every position. There is no undo.
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "confirm the reset")
}

func (c *clearCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		return c.app.usage("clear deletes all the data, confirm with -y")
	}
	e, done, err := c.app.engine(ctx)
	defer done()
	if err != nil {
		return c.app.fail("opening the wallet", err)
	}
	if err := e.Clear(ctx); err != nil {
		return c.app.fail("clearing", err)
	}
	fmt.Fprintln(c.app.Out, "Wallet and holdings cleared.")
	return subcommands.ExitSuccess
}
