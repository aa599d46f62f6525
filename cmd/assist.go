package cmd

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/etnz/stk/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct {
	app *App
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "chat with the AI assistant about the wallet" }
func (*assistCmd) Usage() string {
	return `stk assist [question]

  Starts an interactive session with the AI assistant. The assistant reads
  the wallet, the holdings and the live quotes, it never changes them.
  The Gemini key is read from GEMINI_API_KEY.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, done, err := c.app.engine(ctx)
	defer done()
	if err != nil {
		return c.app.fail("opening the wallet", err)
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return c.app.fail("initializing Gemini's client", err)
	}

	tb := &agent.Toolbox{Engine: e, Quotes: c.app.quotes(), Now: c.app.Now, Loc: c.app.Loc}
	a := agent.New(c.app.Out, os.Stdin, c.app.markdownTo, agent.NewAccountant(tb), agent.NewTrader())
	if err := a.Run(ctx, client, strings.Join(f.Args(), " ")); err != nil {
		return c.app.fail("running the assistant", err)
	}
	return subcommands.ExitSuccess
}
