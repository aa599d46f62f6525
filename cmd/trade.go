package cmd

import (
	"context"
	"flag"

	"github.com/etnz/stk"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type buyCmd struct {
	app      *App
	ticker   string
	quantity int64
	price    decimalFlag
	company  string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "open a position on a ticker" }
func (*buyCmd) Usage() string {
	return `stk buy -t <ticker> -q <quantity> [-p <price>] [-c <company>]

  Buys quantity shares of ticker and debits the cost from the wallet.
  Without -p the live price is used, and a ticker without live price is
  rejected. Without -c the company name is looked up.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "ticker symbol")
	f.Int64Var(&c.quantity, "q", 0, "number of shares, a positive integer")
	f.Var(&c.price, "p", "unit price, the live price when omitted")
	f.StringVar(&c.company, "c", "", "company name, looked up when omitted")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if stk.NormalizeTicker(c.ticker) == "" {
		return c.app.usage("-t is required")
	}
	if c.quantity <= 0 {
		return c.app.usage("-q must be a positive integer")
	}
	if c.price.IsNegative() {
		return c.app.usage("-p must be positive")
	}
	e, done, err := c.app.engine(ctx)
	defer done()
	if err != nil {
		return c.app.fail("opening the wallet", err)
	}
	tx, err := e.Buy(ctx, stk.Order{
		Ticker:   c.ticker,
		Quantity: decimal.NewFromInt(c.quantity),
		Price:    c.price.Decimal,
		Company:  c.company,
	})
	if err != nil {
		return c.app.fail("buying", err)
	}
	return c.app.printBalance(ctx, e, tx)
}

type sellCmd struct {
	app    *App
	ticker string
	price  decimalFlag
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell a whole position" }
func (*sellCmd) Usage() string {
	return `stk sell -t <ticker> [-p <price>]

  Sells all the shares of ticker and credits the proceeds to the wallet.
  Without -p the live price is used.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "ticker symbol")
	f.Var(&c.price, "p", "unit price, the live price when omitted")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if stk.NormalizeTicker(c.ticker) == "" {
		return c.app.usage("-t is required")
	}
	if c.price.IsNegative() {
		return c.app.usage("-p must be positive")
	}
	e, done, err := c.app.engine(ctx)
	defer done()
	if err != nil {
		return c.app.fail("opening the wallet", err)
	}
	tx, err := e.Sell(ctx, c.ticker, c.price.Decimal)
	if err != nil {
		return c.app.fail("selling", err)
	}
	return c.app.printBalance(ctx, e, tx)
}
