package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/stk"
	"github.com/google/subcommands"
)

// cashCmd records a deposit or a withdrawal.
type cashCmd struct {
	app      *App
	withdraw bool
	amount   decimalFlag
}

func (c *cashCmd) Name() string {
	if c.withdraw {
		return "withdraw"
	}
	return "deposit"
}

func (c *cashCmd) Synopsis() string {
	if c.withdraw {
		return "withdraw cash from the wallet"
	}
	return "deposit cash into the wallet"
}

func (c *cashCmd) Usage() string {
	return fmt.Sprintf(`stk %s -a <amount>

  %s. The amount must be positive.
`, c.Name(), c.Synopsis())
}

func (c *cashCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.amount, "a", "amount of cash, in the wallet currency")
}

func (c *cashCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.amount.IsPositive() {
		return c.app.usage("-a must be a positive amount")
	}
	e, done, err := c.app.engine(ctx)
	defer done()
	if err != nil {
		return c.app.fail("opening the wallet", err)
	}

	var tx stk.Transaction
	if c.withdraw {
		tx, err = e.Withdraw(ctx, c.amount.Decimal)
	} else {
		tx, err = e.Deposit(ctx, c.amount.Decimal)
	}
	if err != nil {
		return c.app.fail("recording the "+c.Name(), err)
	}
	return c.app.printBalance(ctx, e, tx)
}

// printBalance prints tx and the resulting balance.
func (a *App) printBalance(ctx context.Context, e *stk.Engine, tx stk.Transaction) subcommands.ExitStatus {
	s, err := e.State(ctx)
	if err != nil {
		return a.fail("loading the wallet", err)
	}
	fmt.Fprintf(a.Out, "%s\nBalance: %s\n", tx, s.Wallet.Balance)
	return subcommands.ExitSuccess
}
