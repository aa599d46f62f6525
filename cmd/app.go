// Package cmd implements the stk command line application.
package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/stk"
	"github.com/etnz/stk/config"
	"github.com/etnz/stk/date"
	"github.com/etnz/stk/quote"
	"github.com/etnz/stk/storage/file"
	"github.com/etnz/stk/storage/postgres"
	redisstore "github.com/etnz/stk/storage/redis"
	"github.com/etnz/stk/storage/sqlite"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Quotes is what the commands need from the quote client.
type Quotes interface {
	stk.PriceSource
	HistoricalData(ctx context.Context, ticker, interval string, outputSize int) (quote.Series, bool)
	MultipleHistoricalData(ctx context.Context, tickers []string) map[string]*quote.Series
	HistoricalPrice(ctx context.Context, ticker string, day date.Date) (decimal.Decimal, bool)
}

// App holds what the commands share. As a CLI application it is short
// lived: the store is opened by each command and closed when it returns.
type App struct {
	Config *config.Config
	Out    io.Writer
	Err    io.Writer
	Log    zerolog.Logger
	Now    func() time.Time
	Loc    *time.Location
	// Plain prints raw markdown instead of rendering it for the terminal.
	Plain bool

	// Backend replaces the configured store backend when set.
	Backend stk.Backend
	// Quotes replaces the quote client when set.
	Quotes Quotes
}

// NewApp returns an App writing to the standard outputs.
func NewApp(cfg *config.Config) *App {
	return &App{
		Config: cfg,
		Out:    os.Stdout,
		Err:    os.Stderr,
		Log:    log.Logger,
		Now:    time.Now,
		Loc:    time.Local,
	}
}

// openBackend opens the configured backend. release closes it.
func (a *App) openBackend(ctx context.Context) (b stk.Backend, release func(), err error) {
	nop := func() {}
	if a.Backend != nil {
		return a.Backend, nop, nil
	}
	cfg := a.Config.Store
	switch cfg.Backend {
	case "memory":
		return &stk.MemoryBackend{}, nop, nil
	case "file":
		fb, err := file.New(cfg.Path)
		return fb, nop, err
	case "sqlite":
		sb, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, nop, err
		}
		return sb, func() { sb.Close() }, nil
	case "postgres":
		pb, err := postgres.New(cfg.DSN)
		if err != nil {
			return nil, nop, err
		}
		return pb, func() { pb.Close() }, nil
	case "redis":
		rb, err := redisstore.New(ctx, redisstore.Options{Addr: cfg.RedisAddr, Prefix: cfg.RedisPrefix})
		if err != nil {
			return nil, nop, err
		}
		return rb, func() { rb.Close() }, nil
	}
	return nil, nop, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// quotes returns the quote client, created on first use.
func (a *App) quotes() Quotes {
	if a.Quotes != nil {
		return a.Quotes
	}
	q := a.Config.Quote
	a.Quotes = quote.New(q.GatewayURL,
		quote.WithHTTPClient(&http.Client{Timeout: q.Timeout.Duration}),
		quote.WithRequestsPerMinute(q.RequestsPerMinute),
		quote.WithLogger(a.Log),
	)
	return a.Quotes
}

// engine opens the store and returns an Engine on it. done must be called
// once the engine is no longer used.
func (a *App) engine(ctx context.Context) (e *stk.Engine, done func(), err error) {
	b, done, err := a.openBackend(ctx)
	if err != nil {
		return nil, done, fmt.Errorf("cannot open the %s store: %w", a.Config.Store.Backend, err)
	}
	store := stk.NewStore(b,
		stk.WithCurrency(a.Config.Currency),
		stk.WithStoreClock(a.Now),
		stk.WithStoreLogger(a.Log),
	)
	return stk.NewEngine(store, a.quotes(), stk.WithClock(a.Now), stk.WithLogger(a.Log)), done, nil
}

// fail reports err and returns the failure status.
func (a *App) fail(what string, err error) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, "Error %s: %v\n", what, err)
	return subcommands.ExitFailure
}

// usage reports a usage error.
func (a *App) usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, format+"\n", args...)
	return subcommands.ExitUsageError
}

// printMarkdown renders md for the terminal, or prints it as is when Plain
// is set or rendering fails.
func (a *App) printMarkdown(md string) {
	if a.Plain {
		fmt.Fprint(a.Out, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(a.Out, out)
			return
		}
	}
	a.Log.Debug().Err(err).Msg("cannot render markdown")
	fmt.Fprint(a.Out, md)
}

// markdownTo adapts printMarkdown to writers other than Out.
func (a *App) markdownTo(w io.Writer, md string) {
	b := *a
	b.Out = w
	b.printMarkdown(md)
}

// decimalFlag is a flag.Value holding a decimal number.
type decimalFlag struct{ decimal.Decimal }

func (d *decimalFlag) Set(s string) error {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	d.Decimal = v
	return nil
}
