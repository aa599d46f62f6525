package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/stk/cmd"
	"github.com/etnz/stk/config"
	"github.com/etnz/stk/logger"
	"github.com/google/subcommands"
)

func main() {
	// Completion is answered before parsing the flags, with the default
	// configuration.
	if cfg, err := config.Load(config.DefaultPath); err == nil {
		cmd.Completion(cmd.NewApp(cfg)).Complete("stk")
	}

	configPath := flag.String("config", config.DefaultPath, "path to the configuration file")
	plain := flag.Bool("plain", false, "print raw markdown instead of rendering it")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	logger.Setup(cfg.LogLevel)

	app := cmd.NewApp(cfg)
	app.Plain = *plain

	commander := subcommands.NewCommander(flag.CommandLine, "stk")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander, app)

	if name := flag.Arg(0); name != "" && !registered(commander, name) {
		if found, code := app.RunExtension(*configPath, name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func registered(c *subcommands.Commander, name string) (found bool) {
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		found = found || cmd.Name() == name
	})
	return found
}
