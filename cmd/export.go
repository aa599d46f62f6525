package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type exportCmd struct {
	app    *App
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the holdings, a summary and the history as CSV" }
func (*exportCmd) Usage() string {
	return `stk export [-o <file>]

  Writes the holdings with their profit and loss, the wallet summary and
  the transaction history with the running balance as CSV, to the standard
  output or to file.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "output file, the standard output if empty")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, done, err := c.app.engine(ctx)
	defer done()
	if err != nil {
		return c.app.fail("opening the wallet", err)
	}
	s, err := e.State(ctx)
	if err != nil {
		return c.app.fail("loading the wallet", err)
	}

	if c.output == "" {
		if err := s.ExportCSV(c.app.Out, c.app.Loc); err != nil {
			return c.app.fail("exporting", err)
		}
		return subcommands.ExitSuccess
	}

	out, err := os.Create(c.output)
	if err != nil {
		return c.app.fail("exporting", err)
	}
	if err := s.ExportCSV(out, c.app.Loc); err != nil {
		out.Close()
		return c.app.fail("exporting", err)
	}
	if err := out.Close(); err != nil {
		return c.app.fail("exporting", err)
	}
	fmt.Fprintf(c.app.Out, "Exported to %s\n", c.output)
	return subcommands.ExitSuccess
}
