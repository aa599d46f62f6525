package cmd

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/stk/config"
	"github.com/etnz/stk/gateway"
	"github.com/google/subcommands"
)

type serveCmd struct {
	app  *App
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the quote gateway" }
func (*serveCmd) Usage() string {
	return `stk serve [-addr <host:port>]

  Serves the quote gateway: GET ` + gateway.Path + `?endpoint=<name>&... is
  forwarded to the quote API with the key from ` + config.EnvAPIKey + `.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", c.app.Config.Gateway.Addr, "address to listen on")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := c.app.Config.Gateway
	if cfg.APIKey == "" {
		c.app.Log.Warn().Msg(config.EnvAPIKey + " is not set, every request will fail")
	}
	g := gateway.New(gateway.Config{
		APIKey:            cfg.APIKey,
		UpstreamURL:       cfg.UpstreamURL,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Timeout:           c.app.Config.Quote.Timeout.Duration,
	}, gateway.WithLogger(c.app.Log))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	c.app.Log.Info().Str("addr", c.addr).Str("path", gateway.Path).Msg("quote gateway listening")
	if err := gateway.ListenAndServe(ctx, c.addr, g); err != nil {
		return c.app.fail("serving", err)
	}
	c.app.Log.Info().Msg("quote gateway stopped")
	return subcommands.ExitSuccess
}
