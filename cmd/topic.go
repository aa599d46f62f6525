package cmd

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/etnz/stk/docs"
	"github.com/google/subcommands"
)

type topicCmd struct {
	app  *App
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `stk topic [-l] [topic...]

  Shows the documentation topics, the index when none is given.
  '*' shows all of them.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "l", false, "list the topics")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		topics, err := docs.List()
		if err != nil {
			return c.app.fail("listing topics", err)
		}
		w := tabwriter.NewWriter(c.app.Out, 0, 4, 2, ' ', 0)
		for _, t := range topics {
			fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Title)
		}
		w.Flush()
		return subcommands.ExitSuccess
	}

	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{""}
	}
	doc, err := docs.Concat(topics...)
	if err != nil {
		return c.app.fail("reading doc", err)
	}
	c.app.printMarkdown(doc)
	return subcommands.ExitSuccess
}
