package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/stk"
	"github.com/etnz/stk/date"
	"github.com/etnz/stk/renderer"
	"github.com/google/subcommands"
)

type quoteCmd struct {
	app    *App
	ticker string
	day    string
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "show the live price of a ticker" }
func (*quoteCmd) Usage() string {
	return `stk quote -t <ticker> [-d <date>]

  Shows the live price and the company name of ticker, or its closing
  price on a past day.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "ticker symbol")
	f.StringVar(&c.day, "d", "", "day of the closing price, as YYYY-MM-DD")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ticker := stk.NormalizeTicker(c.ticker)
	if ticker == "" {
		return c.app.usage("-t is required")
	}
	q := c.app.quotes()
	if c.day != "" {
		day, err := date.Parse(c.day)
		if err != nil {
			return c.app.usage("-d: %v", err)
		}
		if day.After(date.Of(c.app.Now().In(c.app.Loc))) {
			return c.app.usage("-d: %s is in the future", day)
		}
		price, ok := q.HistoricalPrice(ctx, ticker, day)
		if !ok {
			return c.app.fail(fmt.Sprintf("quoting %s on %s", ticker, day), stk.ErrNoPrice)
		}
		fmt.Fprintf(c.app.Out, "%s on %s: %s\n", ticker, day, stk.M(price, c.app.Config.Currency))
		return subcommands.ExitSuccess
	}
	price, ok := q.CurrentPrice(ctx, ticker)
	if !ok {
		return c.app.fail("quoting "+ticker, stk.ErrUnknownTicker)
	}
	company, ok := q.CompanyName(ctx, ticker)
	if !ok {
		company = "unknown company"
	}
	fmt.Fprintf(c.app.Out, "%s (%s): %s\n", ticker, company, stk.M(price, c.app.Config.Currency))
	return subcommands.ExitSuccess
}

type chartCmd struct {
	app      *App
	ticker   string
	interval string
	size     int
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "show the price history of a ticker or of the holdings" }
func (*chartCmd) Usage() string {
	return `stk chart [-t <ticker>] [-i <interval>] [-n <size>]

  Shows the closing prices of ticker, or of every held position when -t
  is omitted, with the change over the period.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "ticker symbol, all positions when omitted")
	f.StringVar(&c.interval, "i", "1day", "interval between points: 1day, 1week, 1month")
	f.IntVar(&c.size, "n", 30, "number of points")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.size <= 0 {
		return c.app.usage("-n must be positive")
	}
	q := c.app.quotes()
	cur := c.app.Config.Currency

	if ticker := stk.NormalizeTicker(c.ticker); ticker != "" {
		s, ok := q.HistoricalData(ctx, ticker, c.interval, c.size)
		if !ok {
			return c.app.fail("charting "+ticker, stk.ErrNoPrice)
		}
		c.app.printMarkdown(renderer.SeriesMarkdown(ticker, cur, s))
		return subcommands.ExitSuccess
	}

	e, done, err := c.app.engine(ctx)
	defer done()
	if err != nil {
		return c.app.fail("opening the wallet", err)
	}
	st, err := e.State(ctx)
	if err != nil {
		return c.app.fail("loading the wallet", err)
	}
	tickers := st.Holdings.Tickers()
	if len(tickers) == 0 {
		fmt.Fprintln(c.app.Out, "No open positions.")
		return subcommands.ExitSuccess
	}
	all := q.MultipleHistoricalData(ctx, tickers)
	var b strings.Builder
	for _, t := range tickers {
		s := all[t]
		if s == nil {
			fmt.Fprintf(&b, "## %s\n\nNo price history available.\n\n", t)
			continue
		}
		b.WriteString(renderer.SeriesMarkdown(t, cur, *s))
		b.WriteString("\n")
	}
	c.app.printMarkdown(b.String())
	return subcommands.ExitSuccess
}
