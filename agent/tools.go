package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/stk"
	"github.com/etnz/stk/docs"
	"github.com/etnz/stk/renderer"
	"google.golang.org/genai"
)

// Func implements a simple Function.
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

// Toolbox gives read access to the wallet, the holdings and the quotes.
type Toolbox struct {
	Engine *stk.Engine
	Quotes stk.PriceSource // optional
	Now    func() time.Time
	Loc    *time.Location
}

func (tb *Toolbox) now() time.Time {
	if tb.Now == nil {
		return time.Now()
	}
	return tb.Now()
}

func (tb *Toolbox) loc() *time.Location {
	if tb.Loc == nil {
		return time.Local
	}
	return tb.Loc
}

// Functions returns all the tools.
func (tb *Toolbox) Functions() []Function {
	return []Function{tb.Wallet(), tb.Holdings(), tb.History(), tb.Quote(), tb.Topic()}
}

// stateTool declares a tool without argument rendering the state.
func (tb *Toolbox) stateTool(name, description, response string, render func(*stk.State) string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: description,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: response,
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			s, err := tb.Engine.State(ctx)
			if err != nil {
				return respond(id, name, "", fmt.Errorf("could not load the wallet: %w", err))
			}
			return respond(id, name, render(s), nil)
		},
	}
}

func (tb *Toolbox) Wallet() *Func {
	return tb.stateTool("Wallet",
		"Wallet returns the cash balance, the portfolio value, the unrealized profit and loss, the total value and the ledger totals by kind.",
		"A markdown summary of the wallet.",
		func(s *stk.State) string { return renderer.RenderWallet(renderer.NewWallet(s, tb.now(), tb.loc())) })
}

func (tb *Toolbox) Holdings() *Func {
	return tb.stateTool("Holdings",
		"Holdings lists the open positions with their company, quantity, purchase and current price, value and profit and loss.",
		"A markdown table of the positions followed by their totals.",
		func(s *stk.State) string {
			return renderer.RenderHoldings(renderer.NewHoldings(&s.Holdings, s.Currency(), tb.now(), tb.loc()))
		})
}

func (tb *Toolbox) History() *Func {
	return tb.stateTool("History",
		"History lists every transaction of the wallet, oldest first, with the running balance.",
		"A markdown table of the transactions.",
		func(s *stk.State) string { return renderer.HistoryMarkdown(s.History(), tb.loc()) })
}

// Quote returns the live price and the company name of a ticker.
func (tb *Toolbox) Quote() *Func {
	const name = "Quote"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Quote returns the live price and the company name of a security.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"ticker": {
						Type:        genai.TypeString,
						Description: must(docs.Get("tickers")),
					},
				},
				Required: []string{"ticker"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The ticker, the company name and the live price.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			ticker, err := stringArg(args, "ticker", "")
			if err != nil {
				return respond(id, name, "", err)
			}
			ticker = stk.NormalizeTicker(ticker)
			if ticker == "" {
				return respond(id, name, "", stk.ErrInvalidTicker)
			}
			if tb.Quotes == nil {
				return respond(id, name, "", stk.ErrNoPrice)
			}
			price, ok := tb.Quotes.CurrentPrice(ctx, ticker)
			if !ok {
				return respond(id, name, "", fmt.Errorf("%s: %w", ticker, stk.ErrUnknownTicker))
			}
			company, _ := tb.Quotes.CompanyName(ctx, ticker)
			return respond(id, name, fmt.Sprintf("%s (%s): %s", ticker, company, price), nil)
		},
	}
}

// Topic returns a documentation topic.
func (tb *Toolbox) Topic() *Func {
	const name = "Topic"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Topic returns the stk documentation on a topic. Without topic it returns the list of topics.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {
						Type:        genai.TypeString,
						Description: "The topic name, like wallet or holdings.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The topic in markdown.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			topic, err := stringArg(args, "topic", "")
			if err != nil {
				return respond(id, name, "", err)
			}
			content, err := docs.Get(topic)
			return respond(id, name, content, err)
		},
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
