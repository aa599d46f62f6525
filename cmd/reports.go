package cmd

import (
	"context"
	"flag"
	"strings"

	"github.com/etnz/stk"
	"github.com/etnz/stk/date"
	"github.com/etnz/stk/renderer"
	"github.com/google/subcommands"
)

// reportCmd prints a markdown report of the state.
type reportCmd struct {
	app      *App
	name     string
	synopsis string
	usage    string
	refresh  bool
	report   func(a *App, s *stk.State) string
}

func (c *reportCmd) Name() string     { return c.name }
func (c *reportCmd) Synopsis() string { return c.synopsis }
func (c *reportCmd) Usage() string    { return c.usage }

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "u", false, "refresh the current prices before the report")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, done, err := c.app.engine(ctx)
	defer done()
	if err != nil {
		return c.app.fail("opening the wallet", err)
	}
	if c.refresh {
		if _, missing, err := e.RefreshAll(ctx); err != nil {
			return c.app.fail("refreshing prices", err)
		} else if len(missing) > 0 {
			c.app.Log.Warn().Strs("tickers", missing).Msg("prices not refreshed")
		}
	}
	s, err := e.State(ctx)
	if err != nil {
		return c.app.fail("loading the wallet", err)
	}
	if err := s.Wallet.Check(); err != nil {
		c.app.Log.Error().Err(err).Msg("wallet is inconsistent, run stk clear to reset it")
	}
	c.app.printMarkdown(c.report(c.app, s))
	return subcommands.ExitSuccess
}

func newHoldingsCmd(app *App) *reportCmd {
	return &reportCmd{
		app:      app,
		name:     "holdings",
		synopsis: "show the open positions and their profit and loss",
		usage: `stk holdings [-u]

  Shows every position with its purchase and current price, value and
  unrealized profit and loss.
`,
		report: func(a *App, s *stk.State) string {
			return renderer.RenderHoldings(renderer.NewHoldings(&s.Holdings, s.Currency(), a.Now(), a.Loc))
		},
	}
}

func newWalletCmd(app *App) *reportCmd {
	return &reportCmd{
		app:      app,
		name:     "wallet",
		synopsis: "show the wallet summary and the balance chart",
		usage: `stk wallet [-u]

  Shows the balance, the portfolio value, the total value and the totals
  of the ledger, followed by the balance after each transaction.
`,
		report: func(a *App, s *stk.State) string {
			now := a.Now().In(a.Loc)
			var b strings.Builder
			b.WriteString(renderer.RenderWallet(renderer.NewWallet(s, now, a.Loc)))
			b.WriteString("\n")
			b.WriteString(renderer.BalanceChartMarkdown(s.BalanceChart(date.Of(now), a.Loc)))
			return b.String()
		},
	}
}

func newHistoryCmd(app *App) *reportCmd {
	return &reportCmd{
		app:      app,
		name:     "history",
		synopsis: "show every transaction with the running balance",
		usage: `stk history [-u]

  Lists the transactions, oldest first, with the balance after each of
  them and the total value at the current prices.
`,
		report: func(a *App, s *stk.State) string {
			return renderer.HistoryMarkdown(s.History(), a.Loc)
		},
	}
}
