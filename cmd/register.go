package cmd

import "github.com/google/subcommands"

// Commands returns all the stk subcommands by group.
func Commands(app *App) map[string][]subcommands.Command {
	return map[string][]subcommands.Command{
		"ledger": {
			&cashCmd{app: app},
			&cashCmd{app: app, withdraw: true},
			&buyCmd{app: app},
			&sellCmd{app: app},
			&refreshCmd{app: app},
			&removeCmd{app: app},
			&clearCmd{app: app},
		},
		"reports": {
			newHoldingsCmd(app),
			newWalletCmd(app),
			newHistoryCmd(app),
			&exportCmd{app: app},
		},
		"quotes": {
			&quoteCmd{app: app},
			&chartCmd{app: app},
			&watchCmd{app: app},
			&serveCmd{app: app},
		},
		"help": {
			&assistCmd{app: app},
			&topicCmd{app: app},
		},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander, app *App) {
	for group, cmds := range Commands(app) {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
}
